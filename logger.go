package sqlkit

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type LogLevel int

const (
	LogLevelDev LogLevel = iota
	LogLevelProd
	LogLevelNop
)

// ParseLogLevel reads the configuration spelling of a level. Empty is nop.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "dev", "development":
		return LogLevelDev, nil
	case "prod", "production":
		return LogLevelProd, nil
	case "", "nop", "none":
		return LogLevelNop, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type zapLogger struct {
	l *zap.SugaredLogger
}

func NewLogger(level LogLevel) (Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	switch level {
	case LogLevelDev:
		l, err = zap.NewDevelopmentConfig().Build()
	case LogLevelProd:
		l, err = zap.NewProductionConfig().Build()
	case LogLevelNop:
		l = zap.NewNop()
	default:
		return nil, fmt.Errorf("log level should be one of LogLevelDev, LogLevelProd or LogLevelNop")
	}
	if err != nil {
		return nil, err
	}
	return &zapLogger{l.Sugar()}, nil
}

// ZapLogger adapts an existing zap logger.
func ZapLogger(l *zap.Logger) Logger {
	return &zapLogger{l.Sugar()}
}

func nopLogger() Logger {
	return &zapLogger{zap.NewNop().Sugar()}
}

func (z *zapLogger) Debugf(format string, args ...any) {
	z.l.Debugf("[DEBUG] "+format, args...)
}

func (z *zapLogger) Warnf(format string, args ...any) {
	z.l.Warnf("[WARN] "+format, args...)
}

func (z *zapLogger) Errorf(format string, args ...any) {
	z.l.Errorf("[ERROR] "+format, args...)
}

func (z *zapLogger) Infof(format string, args ...any) {
	z.l.Infof("[INFO] "+format, args...)
}
