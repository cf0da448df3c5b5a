package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermMatcher(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		tags   []string
		fields []string
		want   bool
	}{
		{"blank matches", "", nil, []string{"anything"}, true},
		{"substring", "rep", nil, []string{"Weekly report"}, true},
		{"case folded", "WEEKLY", nil, []string{"weekly report"}, true},
		{"terms across fields", "weekly alice", []string{"alice"}, []string{"Weekly report"}, true},
		{"all terms required", "weekly bob", []string{"alice"}, []string{"Weekly report"}, false},
		{"empty fields skipped", "x", nil, []string{"", ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTermMatcher(tt.query)
			assert.Equal(t, tt.want, m.match(tt.tags, tt.fields...))
		})
	}
}
