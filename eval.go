package liquid

import "strings"

// signal reports non-local control flow escaping a statement (§9): the
// evaluator is a plain recursive-descent walk, so break/continue are
// threaded back up as an explicit return value rather than panics: each
// node evaluates to (fragment, signal, error), with the context mutated
// in place instead of returned.
type signal int

const (
	signalNone signal = iota
	signalBreak
	signalContinue
)

// evaluator carries the render options through a single evaluation pass.
// It has no mutable state of its own; all mutation happens through the
// *Context threaded explicitly through every call.
type evaluator struct {
	opts Options
	log  *renderLogger
}

func (e *evaluator) evalTemplateBody(tpl *Template, ctx *Context) (string, signal, error) {
	var sb strings.Builder
	for _, n := range tpl.Nodes {
		s, sig, err := e.evalNode(n, ctx)
		sb.WriteString(s)
		if err != nil {
			return sb.String(), signalNone, err
		}
		if sig != signalNone {
			return sb.String(), sig, nil
		}
	}
	return sb.String(), signalNone, nil
}

func (e *evaluator) evalNode(n Node, ctx *Context) (string, signal, error) {
	switch t := n.(type) {
	case *Text:
		return t.Value, signalNone, nil
	case *ObjectExpr:
		val, err := e.evalObjectExpr(t, ctx)
		if err != nil {
			return "", signalNone, err
		}
		return toString(val), signalNone, nil
	case *Assign:
		val, err := e.evalValue(t.Value, ctx)
		if err != nil {
			return "", signalNone, err
		}
		ctx.Set(t.Var, val)
		return "", signalNone, nil
	case *Capture:
		s, sig, err := e.evalTemplateBody(t.Template, ctx.Isolated())
		if err != nil {
			return "", signalNone, err
		}
		if sig != signalNone {
			return "", signalNone, newControlSignalError(signalName(sig))
		}
		ctx.Set(t.Var, s)
		return "", signalNone, nil
	case *Increment:
		// Increment/Decrement mutate silently; test scenario #4 in §8
		// prints the counter only through an explicit {{ foo }} lookup.
		cur, _ := ctx.Get(t.Var)
		cv, _ := toInt(cur)
		ctx.Set(t.Var, cv+1)
		return "", signalNone, nil
	case *Decrement:
		cur, _ := ctx.Get(t.Var)
		cv, _ := toInt(cur)
		ctx.Set(t.Var, cv-1)
		return "", signalNone, nil
	case *Break:
		e.log.Debugf("break")
		return "", signalBreak, nil
	case *Continue:
		e.log.Debugf("continue")
		return "", signalContinue, nil
	case *If:
		return e.evalIf(t, ctx)
	case *Unless:
		return e.evalUnless(t, ctx)
	case *Case:
		return e.evalCase(t, ctx)
	case *For:
		return e.evalFor(t, ctx)
	default:
		return "", signalNone, newSyntaxError(-1, "internal: unhandled AST node %T", n)
	}
}

func signalName(sig signal) string {
	if sig == signalBreak {
		return "break"
	}
	return "continue"
}

// evalValue evaluates any node that may appear where the grammar calls
// for a value: a full object expression with its filter pipeline, or one
// of the bare base expressions (Literal, Range, Lookup).
func (e *evaluator) evalValue(n Node, ctx *Context) (any, error) {
	switch t := n.(type) {
	case *ObjectExpr:
		return e.evalObjectExpr(t, ctx)
	case *Literal:
		return t.Value, nil
	case *Range:
		return e.evalRange(t, ctx)
	case *Lookup:
		return e.evalLookup(t, ctx)
	default:
		return nil, newSyntaxError(-1, "internal: %T is not a value expression", n)
	}
}

func (e *evaluator) evalObjectExpr(n *ObjectExpr, ctx *Context) (any, error) {
	val, err := e.evalValue(n.Obj, ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range n.Filters {
		if _, ok := e.opts.lookupFilter(f.Name); !ok && !e.opts.StrictFilters {
			// In lax mode an unknown filter anywhere in the pipeline
			// blanks the whole expression, not just its own stage.
			e.log.Debugf("unknown filter %q, blanking in lax mode", f.Name)
			return "", nil
		}
		val, err = e.applyFilter(f, val, ctx)
		if err != nil {
			return nil, err
		}
	}
	return val, nil
}

func (e *evaluator) evalRange(r *Range, ctx *Context) (any, error) {
	startV, err := e.evalValue(r.Start, ctx)
	if err != nil {
		return nil, err
	}
	endV, err := e.evalValue(r.End, ctx)
	if err != nil {
		return nil, err
	}
	start, _ := toInt(startV)
	end, _ := toInt(endV)
	var out []any
	if end >= start {
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
	} else {
		for i := start; i >= end; i-- {
			out = append(out, i)
		}
	}
	return out, nil
}

func (e *evaluator) evalLookup(l *Lookup, ctx *Context) (any, error) {
	val, ok := ctx.Get(l.Name)
	if !ok {
		if e.opts.StrictVariables {
			return nil, newUndefinedVariableError(l.Name)
		}
		val = nil
	}
	for _, fn := range l.Fns {
		switch f := fn.(type) {
		case *CollIndex:
			key, err := e.evalValue(f.Key, ctx)
			if err != nil {
				return nil, err
			}
			val = indexInto(val, key)
		case *Filter:
			var err error
			val, err = e.applyFilter(f, val, ctx)
			if err != nil {
				return nil, err
			}
		}
	}
	return val, nil
}

// indexInto implements the `.key`/`[key]` postfix access over the
// canonical sequence/mapping representations (§3.1): an out-of-range or
// type-mismatched access resolves to nil rather than erroring, matching
// the coercion table's "reasonable default" rule.
func indexInto(val, key any) any {
	if m, ok := toStringMap(val); ok {
		v, _ := m[toString(key)]
		return v
	}
	if s, ok := toSlice(val); ok {
		idx, ok := toInt(key)
		if !ok {
			return nil
		}
		if idx < 0 {
			idx += len(s)
		}
		if idx < 0 || idx >= len(s) {
			return nil
		}
		return s[idx]
	}
	return nil
}

func (e *evaluator) applyFilter(f *Filter, input any, ctx *Context) (any, error) {
	fn, ok := e.opts.lookupFilter(f.Name)
	if !ok {
		if e.opts.StrictFilters {
			return nil, newUndefinedFilterError(f.Name)
		}
		e.log.Debugf("unknown filter %q, blanking in lax mode", f.Name)
		return "", nil
	}
	args := make([]any, len(f.Args))
	for i, a := range f.Args {
		v, err := e.evalValue(a, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	out, err := fn(input, args)
	if err != nil {
		return nil, newFilterError(f.Name, err)
	}
	return out, nil
}

func (e *evaluator) evalIf(n *If, ctx *Context) (string, signal, error) {
	for _, cond := range n.Conditions {
		truth, err := e.evalPredicate(cond.Pred, ctx)
		if err != nil {
			return "", signalNone, err
		}
		if truth {
			return e.evalTemplateBody(cond.Template, ctx)
		}
	}
	if n.Else != nil {
		return e.evalTemplateBody(n.Else.Template, ctx)
	}
	return "", signalNone, nil
}

// evalUnless inverts the truthiness of the leading condition only (§4.6);
// any elsif that follows behaves like an ordinary if branch.
func (e *evaluator) evalUnless(n *Unless, ctx *Context) (string, signal, error) {
	for i, cond := range n.Conditions {
		truth, err := e.evalPredicate(cond.Pred, ctx)
		if err != nil {
			return "", signalNone, err
		}
		if i == 0 {
			truth = !truth
		}
		if truth {
			return e.evalTemplateBody(cond.Template, ctx)
		}
	}
	if n.Else != nil {
		return e.evalTemplateBody(n.Else.Template, ctx)
	}
	return "", signalNone, nil
}

func (e *evaluator) evalCase(n *Case, ctx *Context) (string, signal, error) {
	val, err := e.evalValue(n.Val, ctx)
	if err != nil {
		return "", signalNone, err
	}
	for _, w := range n.Whens {
		wv, err := e.evalValue(w.Val, ctx)
		if err != nil {
			return "", signalNone, err
		}
		if equalValues(val, wv) {
			return e.evalTemplateBody(w.Template, ctx)
		}
	}
	if n.Else != nil {
		return e.evalTemplateBody(n.Else.Template, ctx)
	}
	return "", signalNone, nil
}

func (e *evaluator) evalFor(n *For, ctx *Context) (string, signal, error) {
	collVal, err := e.evalValue(n.Collection, ctx)
	if err != nil {
		return "", signalNone, err
	}
	items, ok := toSlice(collVal)
	if !ok {
		items = nil
	}

	start, end := 0, len(items)
	if n.Opts.HasOffset {
		start = n.Opts.Offset
	}
	if start > len(items) {
		start = len(items)
	}
	if n.Opts.HasLimit {
		if limited := start + n.Opts.Limit; limited < end {
			end = limited
		}
	}
	if end < start {
		end = start
	}
	slice := items[start:end]
	if n.Opts.Reversed {
		reversed := make([]any, len(slice))
		for i, v := range slice {
			reversed[len(slice)-1-i] = v
		}
		slice = reversed
	}

	var sb strings.Builder
	for _, item := range slice {
		iterCtx := ctx.WithLocal(n.Var, item)
		s, sig, err := e.evalTemplateBody(n.Template, iterCtx)
		sb.WriteString(s)
		if err != nil {
			return sb.String(), signalNone, err
		}
		if sig == signalBreak {
			break
		}
	}
	return sb.String(), signalNone, nil
}

func (e *evaluator) evalPredicate(n Node, ctx *Context) (bool, error) {
	switch t := n.(type) {
	case *PredicateAnd:
		a, err := e.evalPredicate(t.P1, ctx)
		if err != nil || !a {
			return false, err
		}
		return e.evalPredicate(t.P2, ctx)
	case *PredicateOr:
		a, err := e.evalPredicate(t.P1, ctx)
		if err != nil {
			return false, err
		}
		if a {
			return true, nil
		}
		return e.evalPredicate(t.P2, ctx)
	case *Assertion:
		return e.evalAssertion(t, ctx)
	default:
		v, err := e.evalValue(n, ctx)
		if err != nil {
			return false, err
		}
		return toBool(v), nil
	}
}

func (e *evaluator) evalAssertion(a *Assertion, ctx *Context) (bool, error) {
	av, err := e.evalValue(a.A, ctx)
	if err != nil {
		return false, err
	}
	bv, err := e.evalValue(a.B, ctx)
	if err != nil {
		return false, err
	}
	switch a.Op {
	case OpEq:
		return equalValues(av, bv), nil
	case OpNe:
		return !equalValues(av, bv), nil
	case OpLt:
		c, ok := compareValues(av, bv)
		return ok && c < 0, nil
	case OpLe:
		c, ok := compareValues(av, bv)
		return ok && c <= 0, nil
	case OpGt:
		c, ok := compareValues(av, bv)
		return ok && c > 0, nil
	case OpGe:
		c, ok := compareValues(av, bv)
		return ok && c >= 0, nil
	case OpContains:
		return containsValue(av, bv), nil
	default:
		return false, newSyntaxError(-1, "internal: unhandled operator %q", a.Op)
	}
}

// containsValue implements the `contains` operator (§3.4, §4.7): string
// substring search, or membership in a sequence by structural equality.
func containsValue(a, b any) bool {
	if s, ok := a.(string); ok {
		return strings.Contains(s, toString(b))
	}
	if sl, ok := toSlice(a); ok {
		for _, item := range sl {
			if equalValues(item, b) {
				return true
			}
		}
	}
	return false
}
