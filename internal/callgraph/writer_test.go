package callgraph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONWriter().Write(&Chain{Graph: "B", Method: "m2", Callers: []string{"m1", "m0"}}, &buf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"graph":"B","method":"m2","callers":["m1","m0"]}`, buf.String())

	buf.Reset()
	err = NewPrettyJSONWriter().Write(&Chain{Graph: "B", Method: "root"}, &buf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"graph":"B","method":"root","callers":[]}`, buf.String())
	assert.Contains(t, buf.String(), "\n  ")
}

func TestDOTWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	err := NewDOTWriter().Write(&Chain{Graph: "B", Method: "m2", Callers: []string{"m1", "m0"}}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `digraph "B" {`)
	assert.Contains(t, out, `"m1" -> "m2";`)
	assert.Contains(t, out, `"m0" -> "m1";`)
	assert.Contains(t, out, "}\n")
}
