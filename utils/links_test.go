package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLink(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain url", "https://example.com/post", "https://example.com/post"},
		{"url inside text", "check this out https://example.com/post please", "https://example.com/post"},
		{"http url", "http://example.com", "http://example.com"},
		{"first of several", "https://a.example https://b.example", "https://a.example"},
		{"no url", "just chatting", ""},
		{"scheme only mention", "see https for details", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLink(tt.content))
		})
	}
}

func TestValidLink(t *testing.T) {
	assert.True(t, ValidLink("https://example.com/post"))
	assert.True(t, ValidLink("http://example.com"))
	assert.False(t, ValidLink("example.com"))
	assert.False(t, ValidLink("https://example.com with trailing words"))
	assert.False(t, ValidLink(""))
}

func TestContainsLink(t *testing.T) {
	assert.True(t, ContainsLink("go watch https://example.com/v/1"))
	assert.False(t, ContainsLink("nothing to see here"))
}
