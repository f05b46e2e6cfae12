package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "json tag", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", in: "  \n```JSON\n {\"a\":1} \n```  \n", want: `{"a":1}`},
		{name: "single line fence", in: "```json{\"a\":1}```", want: `{"a":1}`},
		{name: "opening only", in: "```json\n{\"a\":1}", want: `{"a":1}`},
		{name: "no fence", in: ` {"a":1} `, want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimFences(tt.in))
		})
	}
}

func TestExtractObject(t *testing.T) {
	got, ok := ExtractObject(`Sure! Here you go: {"a": 1} Hope that helps!`)
	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, got)

	_, ok = ExtractObject(`} backwards {`)
	assert.False(t, ok)

	_, ok = ExtractObject(`no braces`)
	assert.False(t, ok)
}

func TestNormalizeFencedEqualsUnfenced(t *testing.T) {
	var n Normalizer
	fenced, err := n.Normalize("```json\n{\"a\":1}\n```")
	require.NoError(t, err)
	plain, err := n.Normalize(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, plain, fenced)
	assert.Equal(t, map[string]any{"a": float64(1)}, plain)
}

func TestNormalizeIgnoresSurroundingProse(t *testing.T) {
	got, err := Normalizer{}.Normalize(`Sure! Here you go: {"a": 1} Hope that helps!`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, got)
}

func TestNormalizeUnwrapsEnvelope(t *testing.T) {
	expect := HasKeys("summary", "conclusion")

	t.Run("named envelope key", func(t *testing.T) {
		n := Normalizer{EnvelopeKeys: []string{"analysis"}, Expect: expect}
		got, err := n.Normalize(`{"analysis": {"summary": "s", "conclusion": "c"}}`)
		require.NoError(t, err)
		assert.Equal(t, "s", got["summary"])
	})

	t.Run("single unknown key", func(t *testing.T) {
		n := Normalizer{Expect: expect}
		got, err := n.Normalize(`{"result": {"summary": "s", "conclusion": "c"}}`)
		require.NoError(t, err)
		assert.Equal(t, "c", got["conclusion"])
	})

	t.Run("single key not matching shape is kept", func(t *testing.T) {
		n := Normalizer{Expect: expect}
		got, err := n.Normalize(`{"result": {"other": 1}}`)
		require.NoError(t, err)
		assert.Contains(t, got, "result")
	})

	t.Run("already expected shape", func(t *testing.T) {
		n := Normalizer{EnvelopeKeys: []string{"analysis"}, Expect: expect}
		got, err := n.Normalize(`{"summary": "s", "conclusion": "c", "analysis": {"summary": "inner", "conclusion": "x"}}`)
		require.NoError(t, err)
		assert.Equal(t, "s", got["summary"])
	})
}

func TestNormalizeMalformed(t *testing.T) {
	raw := "I could not produce JSON today. " + strings.Repeat("x", 800)
	_, err := Normalizer{}.Normalize(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))

	var mErr *MalformedResponseError
	require.True(t, errors.As(err, &mErr))
	assert.Len(t, []rune(mErr.Snippet), SnippetLimit)
	assert.True(t, strings.HasPrefix(mErr.Snippet, "I could not produce JSON today."))
}

func TestNormalizeRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{"", "   ", "[1,2,3]", `{"a": }`, "```json\n```"} {
		_, err := Normalizer{}.Normalize(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestDecode(t *testing.T) {
	var dst struct {
		Skills []string `json:"skills"`
	}
	require.NoError(t, Decode(map[string]any{"skills": []any{"Go"}}, &dst))
	assert.Equal(t, []string{"Go"}, dst.Skills)
}
