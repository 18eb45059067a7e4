package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		wantFile string
		wantLine int
		wantErr  string
	}{
		{name: "relative", arg: "polls/tests/test_views.py:12", wantFile: "polls/tests/test_views.py", wantLine: 11},
		{name: "first line", arg: "/ws/test_a.py:1", wantFile: "/ws/test_a.py", wantLine: 0},
		{name: "drive letter", arg: `C:\ws\test_a.py:3`, wantFile: `C:\ws\test_a.py`, wantLine: 2},
		{name: "no line", arg: "test_a.py", wantErr: `expected FILE:LINE, got "test_a.py"`},
		{name: "empty line", arg: "test_a.py:", wantErr: `expected FILE:LINE, got "test_a.py:"`},
		{name: "not a number", arg: "test_a.py:x", wantErr: `invalid line number in "test_a.py:x"`},
		{name: "zero", arg: "test_a.py:0", wantErr: `line must be at least 1 in "test_a.py:0"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, line, err := parseLocation(tt.arg)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, file)
			assert.Equal(t, tt.wantLine, line)
		})
	}
}
