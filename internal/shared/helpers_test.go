package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComment(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "no comment", line: "dt_count = 4", want: "dt_count = 4"},
		{name: "trailing comment", line: "dt_count = 4 ! per day", want: "dt_count = 4 "},
		{name: "whole line", line: "! comment", want: ""},
		{name: "bang in double quotes", line: `name = "a!b" ! c`, want: `name = "a!b" `},
		{name: "bang in single quotes", line: `name = 'a!b'`, want: `name = 'a!b'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComment(tt.line))
		})
	}
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, SplitTopLevel("1, 2,3", ','))
	assert.Equal(t, []string{`'a,b'`, `"c"`}, SplitTopLevel(`'a,b', "c"`, ','))
	assert.Equal(t, []string{"single"}, SplitTopLevel("single", ','))
	assert.True(t, HasTopLevel("1, 2", ','))
	assert.False(t, HasTopLevel(`"1, 2"`, ','))
}

func TestUnquoteAndQuote(t *testing.T) {
	assert.Equal(t, "PO4", Unquote(`"PO4"`))
	assert.Equal(t, "PO4", Unquote(`'PO4'`))
	assert.Equal(t, `'PO4"`, Unquote(`'PO4"`))
	assert.Equal(t, "", Unquote(`""`))
	assert.Equal(t, "plain", Unquote("  plain "))
	assert.Equal(t, `"x"`, Quote("x"))
}
