package liquid

import "strings"

// lex splits template source into raw tokens: runs of plain text, `{{ ... }}`
// object expressions, and `{% ... %}` tags. It also resolves the two tag
// bodies that must be handled before any other tag is even recognized,
// because their content must not itself be re-lexed:
//
//   - `{% comment %} ... {% endcomment %}` is discarded entirely, the way
//     the teacher discards a `{# ... #}` comment in tqtemplate.go's
//     tokenize: if the tag sits alone on its line, the whole line
//     (including its trailing newline) is removed rather than left as a
//     blank line.
//   - `{% raw %} ... {% endraw %}` content is emitted as a single rawText
//     token verbatim, so anything inside it — even `{{`/`{%` sequences —
//     passes through untouched (§4.1).
//
// Double-quoted strings inside a tag or output body are honored so a
// `%}`/`}}` inside one doesn't end the tag early, mirroring the teacher's
// quoted/escaped scan in tokenize. Single quotes are not tracked by this
// scan.
func lex(source string) ([]rawToken, error) {
	var tokens []rawToken
	var literal strings.Builder
	literalStart := 0
	i := 0
	n := len(source)

	flushLiteral := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, rawToken{kind: rawText, text: literal.String(), offset: literalStart})
			literal.Reset()
		}
	}

	for i < n {
		if i < n-1 && source[i] == '{' && source[i+1] == '%' {
			name, body, standalone, next, ok := scanTag(source, i)
			if !ok {
				return nil, newSyntaxError(i, "unterminated tag")
			}
			switch name {
			case "comment":
				end, closeEnd, found := findClosingTag(source, next, "endcomment")
				if !found {
					return nil, newSyntaxError(i, "unterminated comment tag")
				}
				trimStandaloneLiteral(&literal, standalone)
				i = consumeStandaloneNewline(source, closeEnd, standalone)
				_ = end
				continue
			case "raw":
				bodyStart := next
				end, closeEnd, found := findClosingTag(source, next, "endraw")
				if !found {
					return nil, newSyntaxError(i, "unterminated raw tag")
				}
				trimStandaloneLiteral(&literal, standalone)
				flushLiteral()
				tokens = append(tokens, rawToken{kind: rawText, text: source[bodyStart:end], offset: bodyStart})
				i = consumeStandaloneNewline(source, closeEnd, standalone)
				continue
			default:
				trimStandaloneLiteral(&literal, standalone)
				flushLiteral()
				tokens = append(tokens, rawToken{kind: rawTag, text: body, offset: i + 2})
				i = consumeStandaloneNewline(source, next, standalone)
				continue
			}
		}

		if i < n-1 && source[i] == '{' && source[i+1] == '{' {
			flushLiteral()
			expr, next, ok := scanOutput(source, i)
			if !ok {
				return nil, newSyntaxError(i, "unterminated object expression")
			}
			tokens = append(tokens, rawToken{kind: rawOutput, text: expr, offset: i + 2})
			i = next
			continue
		}

		if literal.Len() == 0 {
			literalStart = i
		}
		literal.WriteByte(source[i])
		i++
	}

	flushLiteral()
	return tokens, nil
}

// scanTag reads a `{% ... %}` starting at i, returning the tag's first
// word (its name), its full trimmed body, whether only whitespace precedes
// it on its source line, and the index just past the closing `%}`.
func scanTag(source string, i int) (name, body string, standalone bool, next int, ok bool) {
	lineStart := strings.LastIndexByte(source[:i], '\n') + 1
	standalone = strings.TrimSpace(source[lineStart:i]) == ""

	j := i + 2
	var sb strings.Builder
	quoted := false
	escaped := false
	for j < len(source)-1 {
		ch := source[j]
		if !escaped {
			if ch == '"' {
				quoted = !quoted
			} else if ch == '\\' {
				escaped = true
			} else if !quoted && ch == '%' && source[j+1] == '}' {
				body = strings.TrimSpace(sb.String())
				next = j + 2
				ok = true
				break
			}
		} else {
			escaped = false
		}
		sb.WriteByte(ch)
		j++
	}
	if !ok {
		return "", "", false, 0, false
	}
	name = body
	if sp := strings.IndexAny(body, " \t\r\n"); sp >= 0 {
		name = body[:sp]
	}
	return name, body, standalone, next, true
}

// scanOutput reads a `{{ ... }}` starting at i, returning its trimmed
// inner expression and the index just past the closing `}}`.
func scanOutput(source string, i int) (expr string, next int, ok bool) {
	j := i + 2
	var sb strings.Builder
	quoted := false
	escaped := false
	for j < len(source)-1 {
		ch := source[j]
		if !escaped {
			if ch == '"' {
				quoted = !quoted
			} else if ch == '\\' {
				escaped = true
			} else if !quoted && ch == '}' && source[j+1] == '}' {
				return strings.TrimSpace(sb.String()), j + 2, true
			}
		} else {
			escaped = false
		}
		sb.WriteByte(ch)
		j++
	}
	return "", 0, false
}

// findClosingTag scans forward from pos for a `{% <word> %}` tag whose
// name equals word, not re-lexing anything in between. Returns the byte
// range [bodyEnd, closeTagEnd) where bodyEnd is where the raw body ends
// (just before the closing tag) and closeTagEnd is just past its `%}`.
func findClosingTag(source string, pos int, word string) (bodyEnd, closeTagEnd int, found bool) {
	i := pos
	for i < len(source)-1 {
		if source[i] == '{' && source[i+1] == '%' {
			name, _, _, next, ok := scanTag(source, i)
			if ok && name == word {
				return i, next, true
			}
			if ok {
				i = next
				continue
			}
		}
		i++
	}
	return 0, 0, false
}

// trimStandaloneLiteral removes the whitespace-only tail of literal when
// the tag about to be processed sits alone on its source line, so a
// comment/raw/tag directive on its own line doesn't leave a blank line in
// the output.
func trimStandaloneLiteral(literal *strings.Builder, standalone bool) {
	if !standalone {
		return
	}
	s := literal.String()
	if lineStart := strings.LastIndexByte(s, '\n'); lineStart >= 0 {
		literal.Reset()
		literal.WriteString(s[:lineStart+1])
	} else if strings.TrimSpace(s) == "" {
		literal.Reset()
	}
}

// consumeStandaloneNewline skips the single trailing newline after a
// standalone tag, so its line disappears completely rather than leaving
// an empty one.
func consumeStandaloneNewline(source string, pos int, standalone bool) int {
	if !standalone {
		return pos
	}
	if pos < len(source) && source[pos] == '\n' {
		return pos + 1
	}
	if pos+1 < len(source) && source[pos] == '\r' && source[pos+1] == '\n' {
		return pos + 2
	}
	return pos
}
