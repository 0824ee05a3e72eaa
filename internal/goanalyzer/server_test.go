package goanalyzer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_BuildAndDiffRoundTrips(t *testing.T) {
	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "buildAndDiff",
		"params": map[string]any{
			"base":  map[string]any{"files": []map[string]any{{"path": "a.go", "content": "package a\n\nfunc Foo() {}\n"}}},
			"left":  map[string]any{"files": []map[string]any{{"path": "a.go", "content": "package a\n\nfunc Bar() {}\n"}}},
			"right": map[string]any{"files": []map[string]any{{"path": "a.go", "content": "package a\n\nfunc Foo() {}\n"}}},
		},
	}
	line, err := json.Marshal(req)
	require.NoError(t, err)

	var out bytes.Buffer
	err = Serve(strings.NewReader(string(line)+"\n"), &out)
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Nil(t, resp["error"])
	result := resp["result"].(map[string]any)
	left := result["opLogLeft"].([]any)
	right := result["opLogRight"].([]any)
	assert.Len(t, left, 1)
	assert.Empty(t, right)
}

func TestServe_UnknownMethodReturnsError(t *testing.T) {
	req := map[string]any{"jsonrpc": "2.0", "id": 7, "method": "bogus", "params": map[string]any{}}
	line, err := json.Marshal(req)
	require.NoError(t, err)

	var out bytes.Buffer
	err = Serve(strings.NewReader(string(line)+"\n"), &out)
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.NotNil(t, resp["error"])
}
