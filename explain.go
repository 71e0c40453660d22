package sqlkit

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/table"
)

// StatementLog is the debug record of one executed statement. Duration is in
// microseconds.
type StatementLog struct {
	Type     string `json:"type"`
	Query    string `json:"query"`
	Duration int64  `json:"duration"`
	Args     []any  `json:"args,omitempty"`
}

func (l *StatementLog) String() string {
	return fmt.Sprintf("%-6s %8dµs %s %v", l.Type, l.Duration, clean(l.Query), l.Args)
}

var whitespace = regexp.MustCompile(`\s+`)

func clean(query string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(query, " "))
}

// explain renders a statement with a table of its parameters.
func explain(query string, args []any) string {
	w := table.NewWriter()
	w.AppendHeader(table.Row{"#", "Type", "Value"})
	for i, a := range args {
		w.AppendRow(table.Row{i + 1, fmt.Sprintf("%T", a), fmt.Sprintf("%v", a)})
	}
	return query + "\n" + w.Render()
}

// Explain renders the built statement with its parameters.
func (t *Template) Explain() (string, error) {
	st, err := t.statement()
	if err != nil {
		return "", err
	}
	return explain(st.query, st.args), nil
}

func (f *Factory) record(start time.Time, typ string, st statement, err error) {
	d := time.Since(start)
	f.metrics.observe(st.query, d, err)
	if err != nil {
		f.logger.Errorf("%s failed: %v\n%s", typ, err, explain(st.query, st.args))
		return
	}
	f.logger.Debugf("%s", &StatementLog{Type: typ, Query: st.query, Duration: d.Microseconds(), Args: st.args})
}
