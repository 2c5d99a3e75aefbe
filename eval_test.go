package liquid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRenderScenarios replicates the concrete end-to-end scenarios from
// the testable-properties section verbatim.
func TestRenderScenarios(t *testing.T) {
	t.Parallel()

	friends := []any{"Chandler", "Joey", "Monica", "Phoebe", "Rachel", "Ross"}

	cases := []struct {
		name   string
		source string
		params map[string]any
		want   string
	}{
		{
			name:   "passthrough",
			source: "Hello world!",
			params: map[string]any{},
			want:   "Hello world!",
		},
		{
			name:   "assign",
			source: `{% assign bar = "world" %}Hello {{ bar }}!`,
			params: map[string]any{},
			want:   "Hello world!",
		},
		{
			name:   "capture",
			source: `{% capture bar %}world{% endcapture %}Hello {{ bar }}!`,
			params: map[string]any{},
			want:   "Hello world!",
		},
		{
			name:   "increment and decrement",
			source: `{% decrement foo %}{{ foo }} {% increment foo %}{% increment foo %}{{ foo }}`,
			params: map[string]any{"foo": 42},
			want:   "41 43",
		},
		{
			name:   "filter pipeline",
			source: `Hello {{ x | upcase }}!`,
			params: map[string]any{"x": "world"},
			want:   "Hello WORLD!",
		},
		{
			name:   "ascending range",
			source: `{% for x in (1..5) %}{{ x }}{% endfor %}`,
			params: map[string]any{},
			want:   "12345",
		},
		{
			name:   "descending range",
			source: `{% for x in (5..1) %}{{ x }}{% endfor %}`,
			params: map[string]any{},
			want:   "54321",
		},
		{
			name:   "break stops innermost loop",
			source: `{% for f in friends %}{% if f == "Phoebe" %}{% break %}{% endif %}{{ f }} {% endfor %}`,
			params: map[string]any{"friends": friends},
			want:   "Chandler Joey Monica ",
		},
		{
			name:   "continue skips only the current iteration",
			source: `{% for f in friends %}{% if f == "Joey" or f == "Rachel" %}{% continue %}{% endif %}{{ f }} {% endfor %}`,
			params: map[string]any{"friends": friends},
			want:   "Chandler Monica Phoebe Ross ",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Render(tc.source, tc.params, Options{})
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRenderStrictVariablesRaises(t *testing.T) {
	t.Parallel()
	_, err := Render("Hello {{ z }}!", map[string]any{}, Options{StrictVariables: true})
	require.Error(t, err)
	var undef *UndefinedVariableError
	require.ErrorAs(t, err, &undef)
	require.Equal(t, "z", undef.Name)
}

func TestRenderLaxUndefinedVariableIsBlank(t *testing.T) {
	t.Parallel()
	got, err := Render("Hello {{ z }}!", map[string]any{}, Options{})
	require.NoError(t, err)
	require.Equal(t, "Hello !", got)
}

func TestRenderStrictFiltersRaises(t *testing.T) {
	t.Parallel()
	_, err := Render(`{{ x | bogus }}`, map[string]any{"x": "a"}, Options{StrictFilters: true})
	require.Error(t, err)
	var undef *UndefinedFilterError
	require.ErrorAs(t, err, &undef)
	require.Equal(t, "bogus", undef.Name)
}

func TestRenderLaxUndefinedFilterBlanksExpression(t *testing.T) {
	t.Parallel()
	got, err := Render(`x={{ x | bogus }}.`, map[string]any{"x": "a"}, Options{})
	require.NoError(t, err)
	require.Equal(t, "x=.", got)
}

func TestFilterAssociativity(t *testing.T) {
	t.Parallel()
	got, err := Render(`{{ x | upcase | append: "!" }}`, map[string]any{"x": "hi"}, Options{})
	require.NoError(t, err)
	require.Equal(t, "HI!", got)
}

func TestCaptureIsolatesAssigns(t *testing.T) {
	t.Parallel()
	got, err := Render(`{% capture c %}{% assign leaked = "yes" %}body{% endcapture %}[{{ c }}][{{ leaked }}]`, map[string]any{}, Options{})
	require.NoError(t, err)
	require.Equal(t, "[body][]", got)
}

func TestForAssignPersistsOutsideLoop(t *testing.T) {
	t.Parallel()
	got, err := Render(`{% for x in (1..3) %}{% assign last = x %}{% endfor %}{{ last }}`, map[string]any{}, Options{})
	require.NoError(t, err)
	require.Equal(t, "3", got)
}

func TestForLoopVariableDoesNotLeak(t *testing.T) {
	t.Parallel()
	got, err := Render(`{% for x in (1..2) %}{% endfor %}[{{ x }}]`, map[string]any{}, Options{})
	require.NoError(t, err)
	require.Equal(t, "[]", got)
}

func TestUnlessInvertsCondition(t *testing.T) {
	t.Parallel()
	got, err := Render(`{% unless done %}not done{% else %}done{% endunless %}`, map[string]any{"done": false}, Options{})
	require.NoError(t, err)
	require.Equal(t, "not done", got)
}

func TestPredicateAndOrPrecedence(t *testing.T) {
	t.Parallel()
	got, err := Render(`{% if a and b or c %}yes{% else %}no{% endif %}`, map[string]any{"a": true, "b": false, "c": true}, Options{})
	require.NoError(t, err)
	require.Equal(t, "yes", got)
}

func TestContainsOperator(t *testing.T) {
	t.Parallel()
	got, err := Render(`{% if items contains "b" %}yes{% endif %}`, map[string]any{"items": []any{"a", "b", "c"}}, Options{})
	require.NoError(t, err)
	require.Equal(t, "yes", got)
}

func TestCustomFiltersShadowBuiltins(t *testing.T) {
	t.Parallel()
	opts := Options{CustomFilters: map[string]FilterFunc{
		"upcase": func(input any, _ []any) (any, error) {
			return "CUSTOM:" + toString(input), nil
		},
	}}
	got, err := Render(`{{ x | upcase }}`, map[string]any{"x": "a"}, opts)
	require.NoError(t, err)
	require.Equal(t, "CUSTOM:a", got)
}
