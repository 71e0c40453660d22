package sqlkit

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/golobby/sqlkit/errs"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config describes one named connection.
type Config struct {
	Name              string `yaml:"name" json:"name"`
	Driver            string `yaml:"driver" json:"driver" validate:"required,oneof=mysql postgres pgx sqlite3 sqlite"`
	DSN               string `yaml:"dsn" json:"dsn" validate:"required"`
	LogLevel          string `yaml:"log_level" json:"log_level" validate:"omitempty,oneof=dev development prod production nop none"`
	TemplateCacheSize int    `yaml:"template_cache_size" json:"template_cache_size" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errs.Wrap(errs.ErrIllegalArgument, err, "invalid config %q", c.Name)
	}
	return nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errs.Wrap(errs.ErrIllegalArgument, err, "parse %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

const envPrefix = "SQLKIT_"

// ConfigFromEnv reads SQLKIT_NAME, SQLKIT_DRIVER, SQLKIT_DSN, SQLKIT_LOG_LEVEL
// and SQLKIT_TEMPLATE_CACHE_SIZE after loading the given .env files. Variables
// already set in the environment win over the files.
func ConfigFromEnv(files ...string) (*Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, err
		}
	}
	c := Config{
		Name:     os.Getenv(envPrefix + "NAME"),
		Driver:   os.Getenv(envPrefix + "DRIVER"),
		DSN:      os.Getenv(envPrefix + "DSN"),
		LogLevel: os.Getenv(envPrefix + "LOG_LEVEL"),
	}
	if s := os.Getenv(envPrefix + "TEMPLATE_CACHE_SIZE"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errs.Wrap(errs.ErrIllegalArgument, err, "%sTEMPLATE_CACHE_SIZE", envPrefix)
		}
		c.TemplateCacheSize = n
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
