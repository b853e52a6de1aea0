package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateDuplicate(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		terminator string
		want       string
		wantOK     bool
	}{
		{
			name:       "two_terminators",
			content:    "<project>a</project>\n<project>b</project>\n",
			terminator: "</project>",
			want:       "<project>a</project>",
			wantOK:     true,
		},
		{
			name:       "three_terminators",
			content:    "x</project>y</project>z</project>",
			terminator: "</project>",
			want:       "x</project>",
			wantOK:     true,
		},
		{
			name:       "single_terminator_kept",
			content:    "<project></project>\n",
			terminator: "</project>",
			want:       "<project></project>\n",
		},
		{
			name:       "no_terminator",
			content:    "<project>",
			terminator: "</project>",
			want:       "<project>",
		},
		{
			name:       "empty_terminator",
			content:    "abc",
			terminator: "",
			want:       "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TruncateDuplicate(tt.content, tt.terminator)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestInsertBefore(t *testing.T) {
	got, ok := InsertBefore("<p></p></p>", "</p>", "<x/>")
	assert.True(t, ok)
	assert.Equal(t, "<p><x/></p></p>", got)

	got, ok = InsertBefore("<p>", "</p>", "<x/>")
	assert.False(t, ok)
	assert.Equal(t, "<p>", got)
}
