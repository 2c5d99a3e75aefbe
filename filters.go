package liquid

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
)

// builtinFilters is the representative filter catalogue exercising the
// pipeline described in §4.4; the full Liquid filter library is treated
// as an external collaborator (§1, out of scope) and callers extend this
// table through Options.CustomFilters rather than by vendoring every
// filter Shopify's Liquid ships. Naming and behavior follow Liquid's own
// conventions, adapted from the teacher's filters.go (abs, capitalize,
// default, first, last, join, reverse, round, split, sum, truncate,
// upper/lower renamed to upcase/downcase) plus the array/object filters
// (map, where, compact, uniq) a template engine this shaped is expected
// to carry.
var builtinFilters = map[string]FilterFunc{
	"abs":             filterAbs,
	"append":          filterAppend,
	"prepend":         filterPrepend,
	"capitalize":      filterCapitalize,
	"upcase":          filterUpcase,
	"downcase":        filterDowncase,
	"strip":           filterStrip,
	"lstrip":          filterLstrip,
	"rstrip":          filterRstrip,
	"strip_newlines":  filterStripNewlines,
	"size":            filterSize,
	"first":           filterFirst,
	"last":            filterLast,
	"reverse":         filterReverse,
	"sort":            filterSort,
	"uniq":            filterUniq,
	"join":            filterJoin,
	"split":           filterSplit,
	"slice":           filterSlice,
	"plus":            filterPlus,
	"minus":           filterMinus,
	"times":           filterTimes,
	"divided_by":      filterDividedBy,
	"modulo":          filterModulo,
	"round":           filterRound,
	"ceil":            filterCeil,
	"floor":           filterFloor,
	"truncate":        filterTruncate,
	"truncatewords":   filterTruncatewords,
	"replace":         filterReplace,
	"replace_first":   filterReplaceFirst,
	"remove":          filterRemove,
	"remove_first":    filterRemoveFirst,
	"default":         filterDefault,
	"map":             filterMap,
	"where":           filterWhere,
	"compact":         filterCompact,
	"concat":          filterConcat,
	"sum":             filterSum,
	"url_encode":      filterURLEncode,
	"url_decode":      filterURLDecode,
}

func filterAbs(input any, _ []any) (any, error) {
	n, ok := toNumber(input)
	if !ok {
		return input, nil
	}
	if n < 0 {
		n = -n
	}
	if isFloat(input) {
		return n, nil
	}
	return int(n), nil
}

func filterAppend(input any, args []any) (any, error) {
	if len(args) < 1 {
		return input, nil
	}
	return toString(input) + toString(args[0]), nil
}

func filterPrepend(input any, args []any) (any, error) {
	if len(args) < 1 {
		return input, nil
	}
	return toString(args[0]) + toString(input), nil
}

func filterCapitalize(input any, _ []any) (any, error) {
	s := toString(input)
	if s == "" {
		return s, nil
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:]), nil
}

func filterUpcase(input any, _ []any) (any, error) {
	return strings.ToUpper(toString(input)), nil
}

func filterDowncase(input any, _ []any) (any, error) {
	return strings.ToLower(toString(input)), nil
}

func filterStrip(input any, _ []any) (any, error) {
	return strings.TrimSpace(toString(input)), nil
}

func filterLstrip(input any, _ []any) (any, error) {
	return strings.TrimLeft(toString(input), " \t\r\n"), nil
}

func filterRstrip(input any, _ []any) (any, error) {
	return strings.TrimRight(toString(input), " \t\r\n"), nil
}

func filterStripNewlines(input any, _ []any) (any, error) {
	s := toString(input)
	s = strings.ReplaceAll(s, "\r\n", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s, nil
}

func filterSize(input any, _ []any) (any, error) {
	if s, ok := toSlice(input); ok {
		return len(s), nil
	}
	if m, ok := toStringMap(input); ok {
		return len(m), nil
	}
	return len([]rune(toString(input))), nil
}

func filterFirst(input any, _ []any) (any, error) {
	if s, ok := toSlice(input); ok {
		if len(s) == 0 {
			return nil, nil
		}
		return s[0], nil
	}
	return nil, nil
}

func filterLast(input any, _ []any) (any, error) {
	if s, ok := toSlice(input); ok {
		if len(s) == 0 {
			return nil, nil
		}
		return s[len(s)-1], nil
	}
	return nil, nil
}

func filterReverse(input any, _ []any) (any, error) {
	s, ok := toSlice(input)
	if !ok {
		return input, nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out, nil
}

func filterSort(input any, _ []any) (any, error) {
	s, ok := toSlice(input)
	if !ok {
		return input, nil
	}
	out := append([]any{}, s...)
	sort.SliceStable(out, func(i, j int) bool {
		if c, ok := compareValues(out[i], out[j]); ok {
			return c < 0
		}
		return toString(out[i]) < toString(out[j])
	})
	return out, nil
}

func filterUniq(input any, _ []any) (any, error) {
	s, ok := toSlice(input)
	if !ok {
		return input, nil
	}
	seen := make(map[string]bool, len(s))
	var out []any
	for _, v := range s {
		key := toString(v)
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}
	return out, nil
}

func filterJoin(input any, args []any) (any, error) {
	sep := " "
	if len(args) > 0 {
		sep = toString(args[0])
	}
	s, ok := toSlice(input)
	if !ok {
		return toString(input), nil
	}
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = toString(v)
	}
	return strings.Join(parts, sep), nil
}

func filterSplit(input any, args []any) (any, error) {
	sep := ""
	if len(args) > 0 {
		sep = toString(args[0])
	}
	parts := strings.Split(toString(input), sep)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out, nil
}

func filterSlice(input any, args []any) (any, error) {
	if len(args) < 1 {
		return input, nil
	}
	offset, _ := toInt(args[0])
	length := 1
	if len(args) > 1 {
		length, _ = toInt(args[1])
	}
	if s, ok := toSlice(input); ok {
		offset, end := sliceBounds(offset, length, len(s))
		return s[offset:end], nil
	}
	r := []rune(toString(input))
	offset, end := sliceBounds(offset, length, len(r))
	return string(r[offset:end]), nil
}

func sliceBounds(offset, length, n int) (int, int) {
	if offset < 0 {
		offset += n
	}
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := offset + length
	if end > n {
		end = n
	}
	if end < offset {
		end = offset
	}
	return offset, end
}

func numericArgs(input any, args []any) (a, b float64, bothInt bool, err error) {
	if len(args) < 1 {
		return 0, 0, false, fmt.Errorf("missing argument")
	}
	a, _ = toNumber(input)
	b, _ = toNumber(args[0])
	return a, b, !isFloat(input) && !isFloat(args[0]), nil
}

func filterPlus(input any, args []any) (any, error) {
	a, b, bothInt, err := numericArgs(input, args)
	if err != nil {
		return nil, err
	}
	if bothInt {
		return int(a + b), nil
	}
	return a + b, nil
}

func filterMinus(input any, args []any) (any, error) {
	a, b, bothInt, err := numericArgs(input, args)
	if err != nil {
		return nil, err
	}
	if bothInt {
		return int(a - b), nil
	}
	return a - b, nil
}

func filterTimes(input any, args []any) (any, error) {
	a, b, bothInt, err := numericArgs(input, args)
	if err != nil {
		return nil, err
	}
	if bothInt {
		return int(a * b), nil
	}
	return a * b, nil
}

func filterDividedBy(input any, args []any) (any, error) {
	a, b, bothInt, err := numericArgs(input, args)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	if bothInt {
		return int(a) / int(b), nil
	}
	return a / b, nil
}

func filterModulo(input any, args []any) (any, error) {
	a, b, bothInt, err := numericArgs(input, args)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, fmt.Errorf("modulo by zero")
	}
	if bothInt {
		return int(a) % int(b), nil
	}
	return math.Mod(a, b), nil
}

func filterRound(input any, args []any) (any, error) {
	n, _ := toNumber(input)
	if len(args) > 0 {
		prec, _ := toInt(args[0])
		mult := math.Pow(10, float64(prec))
		return math.Round(n*mult) / mult, nil
	}
	return int(math.Round(n)), nil
}

func filterCeil(input any, _ []any) (any, error) {
	n, _ := toNumber(input)
	return int(math.Ceil(n)), nil
}

func filterFloor(input any, _ []any) (any, error) {
	n, _ := toNumber(input)
	return int(math.Floor(n)), nil
}

func filterTruncate(input any, args []any) (any, error) {
	s := toString(input)
	length := 50
	if len(args) > 0 {
		length, _ = toInt(args[0])
	}
	suffix := "..."
	if len(args) > 1 {
		suffix = toString(args[1])
	}
	r := []rune(s)
	if len(r) <= length {
		return s, nil
	}
	cut := length - len([]rune(suffix))
	if cut < 0 {
		cut = 0
	}
	return string(r[:cut]) + suffix, nil
}

func filterTruncatewords(input any, args []any) (any, error) {
	words := strings.Fields(toString(input))
	n := 15
	if len(args) > 0 {
		n, _ = toInt(args[0])
	}
	suffix := "..."
	if len(args) > 1 {
		suffix = toString(args[1])
	}
	if len(words) <= n {
		return strings.Join(words, " "), nil
	}
	return strings.Join(words[:n], " ") + suffix, nil
}

func filterReplace(input any, args []any) (any, error) {
	if len(args) < 2 {
		return input, nil
	}
	return strings.ReplaceAll(toString(input), toString(args[0]), toString(args[1])), nil
}

func filterReplaceFirst(input any, args []any) (any, error) {
	if len(args) < 2 {
		return input, nil
	}
	return strings.Replace(toString(input), toString(args[0]), toString(args[1]), 1), nil
}

func filterRemove(input any, args []any) (any, error) {
	if len(args) < 1 {
		return input, nil
	}
	return strings.ReplaceAll(toString(input), toString(args[0]), ""), nil
}

func filterRemoveFirst(input any, args []any) (any, error) {
	if len(args) < 1 {
		return input, nil
	}
	return strings.Replace(toString(input), toString(args[0]), "", 1), nil
}

// filterDefault substitutes args[0] when input is falsy or an empty
// string/sequence (§4.4's "reasonable default" stance).
func filterDefault(input any, args []any) (any, error) {
	if len(args) < 1 {
		return input, nil
	}
	if !toBool(input) || isEmptyValue(input) {
		return args[0], nil
	}
	return input, nil
}

func isEmptyValue(v any) bool {
	if s, ok := v.(string); ok {
		return s == ""
	}
	if s, ok := toSlice(v); ok {
		return len(s) == 0
	}
	return false
}

func filterMap(input any, args []any) (any, error) {
	if len(args) < 1 {
		return input, nil
	}
	key := toString(args[0])
	s, ok := toSlice(input)
	if !ok {
		return input, nil
	}
	out := make([]any, len(s))
	for i, item := range s {
		if m, ok := toStringMap(item); ok {
			out[i] = m[key]
		}
	}
	return out, nil
}

func filterWhere(input any, args []any) (any, error) {
	if len(args) < 1 {
		return input, nil
	}
	key := toString(args[0])
	var want any = true
	if len(args) > 1 {
		want = args[1]
	}
	s, ok := toSlice(input)
	if !ok {
		return input, nil
	}
	var out []any
	for _, item := range s {
		m, ok := toStringMap(item)
		if !ok {
			continue
		}
		if v, exists := m[key]; exists && equalValues(v, want) {
			out = append(out, item)
		}
	}
	return out, nil
}

func filterCompact(input any, _ []any) (any, error) {
	s, ok := toSlice(input)
	if !ok {
		return input, nil
	}
	var out []any
	for _, v := range s {
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func filterConcat(input any, args []any) (any, error) {
	if len(args) < 1 {
		return input, nil
	}
	a, _ := toSlice(input)
	b, _ := toSlice(args[0])
	out := make([]any, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out, nil
}

func filterSum(input any, args []any) (any, error) {
	s, ok := toSlice(input)
	if !ok {
		return 0, nil
	}
	key := ""
	if len(args) > 0 {
		key = toString(args[0])
	}
	total := 0.0
	allInt := true
	for _, v := range s {
		item := v
		if key != "" {
			if m, ok := toStringMap(v); ok {
				item = m[key]
			}
		}
		n, _ := toNumber(item)
		total += n
		if isFloat(item) {
			allInt = false
		}
	}
	if allInt {
		return int(total), nil
	}
	return total, nil
}

func filterURLEncode(input any, _ []any) (any, error) {
	return url.QueryEscape(toString(input)), nil
}

func filterURLDecode(input any, _ []any) (any, error) {
	s, err := url.QueryUnescape(toString(input))
	if err != nil {
		return nil, err
	}
	return s, nil
}
