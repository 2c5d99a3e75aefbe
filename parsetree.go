package liquid

import "strings"

// parseNode is the untyped parse tree described in §2's Parser row: a
// tree of terminals and nonterminals, one level less processed than the
// typed AST in ast.go. It mirrors the teacher's *TreeNode{Type,
// Expression, Children} shape in tqtemplate.go's createSyntaxTree,
// generalized from the teacher's if/for/var tag set to the full Liquid
// tag set this spec requires (§4.1).
//
// An "if"/"unless"/"case" parseNode's children are not purely its body:
// the node also collects its own elsif/else (or when/else) siblings as
// direct children, each carrying its own body in turn. transform.go
// splits that flat list back into the typed If/Unless/Case branches.
type parseNode struct {
	kind     string
	expr     string
	children []*parseNode
}

// openers start a new nesting scope that must be closed by the matching
// "end*" tag.
var openers = map[string]string{
	"if":      "endif",
	"unless":  "endunless",
	"case":    "endcase",
	"for":     "endfor",
	"capture": "endcapture",
}

// reopenersOf lists which bare tag names may reopen a branch of the given
// head kind, the way the teacher's createSyntaxTree treats "elseif"/
// "else" as continuations of the currently open "if" rather than new
// top-level nodes.
var reopenersOf = map[string][]string{
	"if":     {"elsif", "else"},
	"unless": {"elsif", "else"},
	"case":   {"when", "else"},
}

// frame remembers, for one open construct, the node to restore as
// `current` once it closes (outer) and the construct's own head node
// (head), which every elsif/else/when reopener attaches itself to and
// whose kind the matching end tag is checked against.
type frame struct {
	outer *parseNode
	head  *parseNode
}

// parse turns raw tokens into a parse tree, enforcing tag nesting and
// reporting malformed templates as fatal syntax errors (§4.1: "Parse
// errors are fatal").
func parse(tokens []rawToken) (*parseNode, error) {
	root := &parseNode{kind: "root"}
	current := root
	var stack []frame

	isReopener := func(headKind, tag string) bool {
		for _, t := range reopenersOf[headKind] {
			if t == tag {
				return true
			}
		}
		return false
	}

	for _, tok := range tokens {
		switch tok.kind {
		case rawText:
			current.children = append(current.children, &parseNode{kind: "text", expr: tok.text})
		case rawOutput:
			current.children = append(current.children, &parseNode{kind: "output", expr: tok.text})
		case rawTag:
			name, rest := splitTagHead(tok.text)
			switch {
			case name == "break":
				current.children = append(current.children, &parseNode{kind: "break"})
			case name == "continue":
				current.children = append(current.children, &parseNode{kind: "continue"})
			case name == "assign":
				current.children = append(current.children, &parseNode{kind: "assign", expr: rest})
			case name == "increment":
				current.children = append(current.children, &parseNode{kind: "increment", expr: rest})
			case name == "decrement":
				current.children = append(current.children, &parseNode{kind: "decrement", expr: rest})
			case openers[name] != "":
				node := &parseNode{kind: name, expr: rest}
				current.children = append(current.children, node)
				stack = append(stack, frame{outer: current, head: node})
				current = node
			case len(stack) > 0 && isReopener(stack[len(stack)-1].head.kind, name):
				head := stack[len(stack)-1].head
				node := &parseNode{kind: name, expr: rest}
				head.children = append(head.children, node)
				current = node
			case isEndTag(name):
				if len(stack) == 0 {
					return nil, newSyntaxError(tok.offset, "unmatched `%s`", name)
				}
				top := stack[len(stack)-1]
				if top.head.kind != endTagOpener(name) {
					return nil, newSyntaxError(tok.offset, "`%s` does not match the currently open `%s`", name, top.head.kind)
				}
				current = top.outer
				stack = stack[:len(stack)-1]
			default:
				return nil, newSyntaxError(tok.offset, "unrecognized tag `%s`", name)
			}
		}
	}

	if len(stack) != 0 {
		return nil, newSyntaxError(0, "unclosed `%s` tag", stack[len(stack)-1].head.kind)
	}
	return root, nil
}

func splitTagHead(body string) (name, rest string) {
	sp := strings.IndexAny(body, " \t\r\n")
	if sp < 0 {
		return body, ""
	}
	return body[:sp], strings.TrimSpace(body[sp+1:])
}

func isEndTag(name string) bool {
	return endTagOpener(name) != ""
}

func endTagOpener(name string) string {
	switch name {
	case "endif":
		return "if"
	case "endunless":
		return "unless"
	case "endcase":
		return "case"
	case "endfor":
		return "for"
	case "endcapture":
		return "capture"
	}
	return ""
}
