package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"prose", "Here you go:\n{\"a\": [\"x\"]}\nThanks", `{"a": ["x"]}`},
		{"fenced", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{"brace in string", `{"a":"use {curly} braces"}`, `{"a":"use {curly} braces"}`},
		{"skips invalid", `{not json} then {"ok":true}`, `{"ok":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSON_None(t *testing.T) {
	_, err := ExtractJSON("no json here")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ExtractJSON(`{"unterminated": `)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Pains []string `json:"pains"`
	}
	require.NoError(t, DecodeJSON(`reply: {"pains":["slow onboarding"]}`, &out))
	assert.Equal(t, []string{"slow onboarding"}, out.Pains)
}

func TestResponseTotalTokens(t *testing.T) {
	r := &Response{InputTokens: 12, OutputTokens: 30}
	assert.Equal(t, 42, r.TotalTokens())
}
