package liquid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexPlainText(t *testing.T) {
	t.Parallel()
	tokens, err := lex("Hello world!")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, rawText, tokens[0].kind)
	require.Equal(t, "Hello world!", tokens[0].text)
}

func TestLexOutputAndTag(t *testing.T) {
	t.Parallel()
	tokens, err := lex(`Hi {{ name }}, {% assign x = 1 %}done`)
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	require.Equal(t, rawText, tokens[0].kind)
	require.Equal(t, rawOutput, tokens[1].kind)
	require.Equal(t, "name", tokens[1].text)
	require.Equal(t, rawText, tokens[2].kind)
	require.Equal(t, ", ", tokens[2].text)
	require.Equal(t, rawTag, tokens[3].kind)
	require.Equal(t, "assign x = 1", tokens[3].text)
	require.Equal(t, rawText, tokens[4].kind)
	require.Equal(t, "done", tokens[4].text)
}

func TestLexQuotedDelimiterInsideTag(t *testing.T) {
	t.Parallel()
	tokens, err := lex(`{% assign x = "a %} b" %}`)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, `assign x = "a %} b"`, tokens[0].text)
}

func TestLexCommentDiscardedStandalone(t *testing.T) {
	t.Parallel()
	tokens, err := lex("before\n{% comment %}\nhidden\n{% endcomment %}\nafter")
	require.NoError(t, err)
	var text string
	for _, tok := range tokens {
		require.NotEqual(t, rawTag, tok.kind)
		if tok.kind == rawText {
			text += tok.text
		}
	}
	require.Equal(t, "before\nafter", text)
}

func TestLexRawPassesThroughVerbatim(t *testing.T) {
	t.Parallel()
	tokens, err := lex(`{% raw %}{{ not a var }}{% endraw %}`)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, rawText, tokens[0].kind)
	require.Equal(t, "{{ not a var }}", tokens[0].text)
}

func TestLexUnterminatedTagIsSyntaxError(t *testing.T) {
	t.Parallel()
	_, err := lex("{% assign x = 1")
	require.Error(t, err)
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
}
