package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *KeyValue {
	return NewKeyValue().
		Add("context", "0x0101").
		Add("eventId", "0xabcd").
		Add("preimage_len", 610)
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatText, sample()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "context:       0x0101", lines[0])
	assert.Equal(t, "preimage_len:  610", lines[2])
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatJSON, sample()))

	var out struct {
		Result map[string]any `json:"result"`
		Error  string         `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "0xabcd", out.Result["eventId"])
	assert.Equal(t, float64(610), out.Result["preimage_len"])
	assert.Empty(t, out.Error)
}

func TestPrintMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatMarkdown, sample()))

	out := buf.String()
	assert.Contains(t, out, "| Field")
	assert.Contains(t, out, "| eventId")
	assert.Contains(t, out, "0xabcd")
}

type textOnly struct{}

func (textOnly) MarshalText() ([]byte, error) { return []byte("plain"), nil }
func (textOnly) MarshalJSON() ([]byte, error) { return []byte(`"plain"`), nil }

func TestPrintMarkdownRequiresTable(t *testing.T) {
	err := Print(&bytes.Buffer{}, FormatMarkdown, textOnly{})
	assert.Error(t, err)
}

func TestPrintCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String(OutputFlag, "json", "")
	cmd.SetOut(&buf)

	require.NoError(t, PrintCmd(cmd, textOnly{}))
	assert.JSONEq(t, `{"result":"plain","error":""}`, buf.String())

	require.NoError(t, cmd.Flags().Set(OutputFlag, "yaml"))
	assert.Error(t, PrintCmd(cmd, textOnly{}))

	_, err := ParseFormat("markdown")
	assert.NoError(t, err)
}
