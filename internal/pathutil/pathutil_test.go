package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRelative(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple relative path", input: "src/x.ts", want: "src/x.ts"},
		{name: "absolute path reduced to base name", input: "/etc/passwd", want: "passwd"},
		{name: "leading parent traversal stripped", input: "../../etc/passwd", want: "etc/passwd"},
		{name: "bare parent traversal", input: "..", want: "."},
		{name: "dot-cleaned redundant segments", input: "./src/../lib/x.ts", want: "lib/x.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRelative(tt.input))
		})
	}
}

func TestJoinTreeRelative_NeverEscapesRoot(t *testing.T) {
	got := JoinTreeRelative("/tmp/tree", "../../../etc/passwd")
	assert.Equal(t, "/tmp/tree/etc/passwd", got)
}
