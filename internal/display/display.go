// Package display renders command results as text, JSON or a markdown table.
package display

import (
	"encoding"
	"encoding/json"
	"fmt"
	"io"

	markdown "github.com/fbiville/markdown-table-formatter/pkg/markdown"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// OutputFlag is the persistent flag read by PrintCmd.
const OutputFlag = "output"

type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	default:
		return "", errors.Errorf("unknown output format %q (want text, json or markdown)", s)
	}
}

// Response is anything a command prints.
type Response interface {
	encoding.TextMarshaler
	json.Marshaler
}

// Tabular responses can also be printed as a markdown table.
type Tabular interface {
	Table() (header []string, rows [][]string)
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// Print writes r to w in the given format.
func Print(w io.Writer, format Format, r Response) error {
	switch format {
	case FormatText, "":
		text, err := r.MarshalText()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(text))
		return err

	case FormatJSON:
		result, err := r.MarshalJSON()
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(envelope{Result: result}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err

	case FormatMarkdown:
		t, ok := r.(Tabular)
		if !ok {
			return errors.Errorf("%T cannot be rendered as a table", r)
		}
		header, rows := t.Table()
		table, err := markdown.NewTableFormatterBuilder().
			WithPrettyPrint().
			Build(header...).
			Format(rows)
		if err != nil {
			return errors.Wrap(err, "format markdown table")
		}
		_, err = fmt.Fprint(w, table)
		return err

	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// PrintCmd prints r to the command's output using its --output flag.
func PrintCmd(cmd *cobra.Command, r Response) error {
	format := FormatText
	if s, err := cmd.Flags().GetString(OutputFlag); err == nil && s != "" {
		f, err := ParseFormat(s)
		if err != nil {
			return err
		}
		format = f
	}
	return Print(cmd.OutOrStdout(), format, r)
}

// KeyValue is a two-column response for simple field listings.
type KeyValue struct {
	Keys   []string
	Values map[string]any
}

func NewKeyValue() *KeyValue {
	return &KeyValue{Values: map[string]any{}}
}

// Add appends a field, keeping insertion order for text and table output.
func (kv *KeyValue) Add(key string, value any) *KeyValue {
	if _, seen := kv.Values[key]; !seen {
		kv.Keys = append(kv.Keys, key)
	}
	kv.Values[key] = value
	return kv
}

func (kv *KeyValue) MarshalText() ([]byte, error) {
	width := 0
	for _, k := range kv.Keys {
		width = max(width, len(k))
	}
	var out []byte
	for i, k := range kv.Keys {
		if i > 0 {
			out = append(out, '\n')
		}
		out = fmt.Appendf(out, "%-*s  %v", width+1, k+":", kv.Values[k])
	}
	return out, nil
}

func (kv *KeyValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(kv.Values)
}

func (kv *KeyValue) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(kv.Keys))
	for _, k := range kv.Keys {
		rows = append(rows, []string{k, fmt.Sprint(kv.Values[k])})
	}
	return []string{"Field", "Value"}, rows
}
