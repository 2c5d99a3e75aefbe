package liquid

import "github.com/sirupsen/logrus"

// Renderer is the facade over parsing and evaluation (§5's external
// interface surface). Logger is optional and nil by default; when set,
// the evaluator emits debug-level diagnostics through it, mirroring the
// teacher's render.go facade generalized with the ambient logging stance
// from SPEC_FULL.md.
type Renderer struct {
	Logger *logrus.Logger
}

// New returns a Renderer with no logger attached.
func New() *Renderer {
	return &Renderer{}
}

// Parse compiles source into a reusable *Template: lex, build the
// untyped parse tree, then transform it into the typed AST (§4.1-§3.4).
// A malformed template yields a *SyntaxError, never a panic.
func (r *Renderer) Parse(source string) (*Template, error) {
	tokens, err := lex(source)
	if err != nil {
		return nil, err
	}
	tree, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	return transform(tree)
}

// Render evaluates tpl against params under opts, returning the rendered
// string (§4.6). A break or continue that escapes every enclosing for
// loop is reported as a *ControlSignalError rather than silently
// swallowed (§7).
func (r *Renderer) Render(tpl *Template, params map[string]any, opts Options) (string, error) {
	ev := &evaluator{opts: opts, log: newRenderLogger(r.Logger)}
	ctx := NewContext(params)
	out, sig, err := ev.evalTemplateBody(tpl, ctx)
	if err != nil {
		return out, err
	}
	if sig != signalNone {
		return out, newControlSignalError(signalName(sig))
	}
	return out, nil
}

// Render is the package-level convenience wrapping Parse and Render for
// a one-shot call, the way a caller who only needs a single render never
// has to construct a Renderer or hold on to the *Template.
func Render(source string, params map[string]any, opts Options) (string, error) {
	r := New()
	tpl, err := r.Parse(source)
	if err != nil {
		return "", err
	}
	return r.Render(tpl, params, opts)
}
