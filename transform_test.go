package liquid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, src string) *Template {
	t.Helper()
	tokens, err := lex(src)
	require.NoError(t, err)
	tree, err := parse(tokens)
	require.NoError(t, err)
	tpl, err := transform(tree)
	require.NoError(t, err)
	return tpl
}

func TestTransformIfElsifElse(t *testing.T) {
	t.Parallel()
	tpl := mustBuild(t, `{% if a %}A{% elsif b %}B{% else %}C{% endif %}`)
	require.Len(t, tpl.Nodes, 1)
	ifNode, ok := tpl.Nodes[0].(*If)
	require.True(t, ok)
	require.Len(t, ifNode.Conditions, 2)
	require.NotNil(t, ifNode.Else)
}

func TestTransformCaseWhenElse(t *testing.T) {
	t.Parallel()
	tpl := mustBuild(t, `{% case x %}{% when 1 %}one{% when 2 %}two{% else %}other{% endcase %}`)
	caseNode, ok := tpl.Nodes[0].(*Case)
	require.True(t, ok)
	require.Len(t, caseNode.Whens, 2)
	require.NotNil(t, caseNode.Else)
}

func TestTransformForWithModifiers(t *testing.T) {
	t.Parallel()
	tpl := mustBuild(t, `{% for x in items limit: 2 offset: 1 reversed %}{{ x }}{% endfor %}`)
	forNode, ok := tpl.Nodes[0].(*For)
	require.True(t, ok)
	require.Equal(t, "x", forNode.Var)
	require.True(t, forNode.Opts.HasLimit)
	require.Equal(t, 2, forNode.Opts.Limit)
	require.True(t, forNode.Opts.HasOffset)
	require.Equal(t, 1, forNode.Opts.Offset)
	require.True(t, forNode.Opts.Reversed)
}

func TestTransformLookupWithIndexAndDot(t *testing.T) {
	t.Parallel()
	tpl := mustBuild(t, `{{ user.name }}{{ items[0] }}`)
	obj1 := tpl.Nodes[0].(*ObjectExpr)
	lookup1 := obj1.Obj.(*Lookup)
	require.Equal(t, "user", lookup1.Name)
	require.Len(t, lookup1.Fns, 1)

	obj2 := tpl.Nodes[1].(*ObjectExpr)
	lookup2 := obj2.Obj.(*Lookup)
	require.Equal(t, "items", lookup2.Name)
	idx, ok := lookup2.Fns[0].(*CollIndex)
	require.True(t, ok)
	lit, ok := idx.Key.(*Literal)
	require.True(t, ok)
	require.Equal(t, 0, lit.Value)
}

func TestParseUnclosedTagIsSyntaxError(t *testing.T) {
	t.Parallel()
	tokens, err := lex(`{% if a %}no end`)
	require.NoError(t, err)
	_, err = parse(tokens)
	require.Error(t, err)
}

func TestParseMismatchedEndTagIsSyntaxError(t *testing.T) {
	t.Parallel()
	tokens, err := lex(`{% if a %}x{% endfor %}`)
	require.NoError(t, err)
	_, err = parse(tokens)
	require.Error(t, err)
}
