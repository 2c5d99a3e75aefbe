package liquid

// rawTokenKind distinguishes the three lexical categories the grammar
// recognizes at the top level (§4.1): plain text, an object expression's
// inner source, and a tag's inner source.
type rawTokenKind int

const (
	rawText rawTokenKind = iota
	rawOutput
	rawTag
)

// rawToken is one lexical unit produced by the lexer, before any tag name
// or expression inside it has been parsed.
type rawToken struct {
	kind rawTokenKind
	text string
	// offset is the byte position in the original source where this
	// token's content began, used to annotate syntax errors.
	offset int
}
