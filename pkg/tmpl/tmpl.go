// Package tmpl renders hook command templates.
package tmpl

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// shellQuote wraps s in single quotes, escaping embedded quotes as '\''.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// shellJoin quotes every element and joins them with spaces.
func shellJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = shellQuote(s)
	}
	return strings.Join(quoted, " ")
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var funcs = template.FuncMap{
	"shq":    shellQuote,
	"shjoin": shellJoin,
	"money":  money,
}

// Render executes a Go template string with the given data. Undefined keys are
// an error.
//
// Template functions:
//   - shq: quote a string for a POSIX shell
//   - shjoin: quote each element of a string slice and join with spaces
//   - money: format a number with two decimals
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
