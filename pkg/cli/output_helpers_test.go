package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	assert.NoError(t, validateOutputFormat(""))
	assert.NoError(t, validateOutputFormat("table"))
	assert.NoError(t, validateOutputFormat("json"))
	assert.Error(t, validateOutputFormat("yaml"))
	assert.Error(t, validateOutputFormat("TABLE"))
}

func TestPrintJSONIndents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]string{"hello": "world"}))
	assert.Equal(t, "{\n  \"hello\": \"world\"\n}\n", buf.String())
}

func TestPrintTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"IDENTITY", "ROLE"}, [][]string{
		{"u1", "student"},
		{"faculty-member-long", "faculty"},
	})

	out := buf.String()
	assert.Contains(t, out, "IDENTITY")
	assert.Contains(t, out, "faculty-member-long")
	lines := bytes.Split(buf.Bytes(), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, bytes.Index(lines[1], []byte("student")), bytes.Index(lines[2], []byte("faculty")))
}
