package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object",
			raw:  `{"category": "WORK"}`,
			want: `{"category": "WORK"}`,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"category\": \"WORK\"}\n```",
			want: `{"category": "WORK"}`,
		},
		{
			name: "fenced without tag",
			raw:  "```\n{\"priority\": 7}\n```",
			want: `{"priority": 7}`,
		},
		{
			name: "surrounded by prose",
			raw:  "Here is my analysis:\n{\"category\": \"SPAM\"}\nLet me know if you need more.",
			want: `{"category": "SPAM"}`,
		},
		{
			name: "nested braces kept intact",
			raw:  `prefix {"actions": [{"description": "x"}]} suffix`,
			want: `{"actions": [{"description": "x"}]}`,
		},
		{
			name: "no object passes through",
			raw:  "I cannot answer that.",
			want: "I cannot answer that.",
		},
		{
			name: "whitespace trimmed",
			raw:  "  \n {\"a\": 1} \n ",
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.raw))
		})
	}
}
