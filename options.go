package liquid

// FilterFunc is the contract every filter — built-in or caller-supplied —
// must satisfy (§6). Filters must tolerate type-mismatched input by
// coercing or returning a reasonable default rather than panicking.
type FilterFunc func(input any, args []any) (any, error)

// Options configures a single render call (§3.3). All fields default to
// the lax/empty zero value.
type Options struct {
	// StrictVariables, if true, makes reading an undefined variable fail
	// instead of resolving to nil.
	StrictVariables bool

	// StrictFilters, if true, makes invoking an unknown filter fail
	// instead of leaving the expression carrying it blank.
	StrictFilters bool

	// CustomFilters is consulted before the built-in filter table when
	// resolving a filter name (§4.2).
	CustomFilters map[string]FilterFunc
}

func (o Options) lookupFilter(name string) (FilterFunc, bool) {
	if o.CustomFilters != nil {
		if fn, ok := o.CustomFilters[name]; ok {
			return fn, true
		}
	}
	fn, ok := builtinFilters[name]
	return fn, ok
}
