package analyzer

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"
)

// renderInteger renders an integer literal in decimal, the way Python
// prints the value (0x1F -> 31, 1_000 -> 1000, 3j -> 3j).
func renderInteger(text string) string {
	digits, suffix := splitNumberSuffix(text)

	// imaginary literals are always decimal: 0777j is 777j
	base := 0
	if suffix != "" {
		base = 10
	}
	value, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return text
	}
	return value.String() + suffix
}

// renderFloat renders a float literal in shortest round-trip form with
// Python's repr rules for switching to exponent notation.
func renderFloat(text string) string {
	digits, suffix := splitNumberSuffix(text)

	value, err := strconv.ParseFloat(digits, 64)
	if err != nil && !math.IsInf(value, 0) {
		return text
	}
	return formatPythonFloat(value) + suffix
}

// formatPythonFloat formats a non-negative float like Python's repr
func formatPythonFloat(value float64) string {
	if math.IsInf(value, 0) {
		return "1e309"
	}

	sci := strconv.FormatFloat(value, 'e', -1, 64)
	exp := 0
	if i := strings.IndexByte(sci, 'e'); i >= 0 {
		exp, _ = strconv.Atoi(sci[i+1:])
	}

	if value != 0 && (exp < -4 || exp >= 16) {
		return sci
	}

	fixed := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}

// splitNumberSuffix removes underscores and splits off an imaginary suffix
func splitNumberSuffix(text string) (string, string) {
	digits := strings.ReplaceAll(text, "_", "")
	if strings.HasSuffix(digits, "j") || strings.HasSuffix(digits, "J") {
		return digits[:len(digits)-1], "j"
	}
	return digits, ""
}

// stringLiteral is a decoded string literal
type stringLiteral struct {
	value   []rune
	isBytes bool
	isF     bool
}

// stringPrefix returns the prefix letters of a string literal token
func stringPrefix(text string) string {
	end := strings.IndexAny(text, `'"`)
	if end < 0 {
		return ""
	}
	return text[:end]
}

// parseStringLiteral decodes a Python string literal token
func parseStringLiteral(text string) stringLiteral {
	prefix := strings.ToLower(stringPrefix(text))
	lit := stringLiteral{
		isBytes: strings.Contains(prefix, "b"),
		isF:     strings.Contains(prefix, "f"),
	}
	if lit.isF {
		return lit
	}

	body := stringBody(text[len(prefix):])
	if strings.Contains(prefix, "r") {
		lit.value = []rune(body)
	} else {
		lit.value = decodeEscapes(body, lit.isBytes)
	}
	return lit
}

// stringBody strips the quotes of a literal whose prefix was removed
func stringBody(quoted string) string {
	if quoted == "" {
		return ""
	}
	quote := quoted[:1]
	if strings.HasPrefix(quoted, quote+quote+quote) && len(quoted) >= 6 {
		quote = quote + quote + quote
	}
	body := strings.TrimPrefix(quoted, quote)
	return strings.TrimSuffix(body, quote)
}

// decodeEscapes resolves backslash escapes. Unknown escapes keep their
// backslash.
func decodeEscapes(body string, isBytes bool) []rune {
	out := make([]rune, 0, len(body))

	for i := 0; i < len(body); {
		r, size := utf8.DecodeRuneInString(body[i:])
		if r != '\\' || i+1 >= len(body) {
			out = append(out, r)
			i += size
			continue
		}

		esc := body[i+1]
		i += 2
		switch esc {
		case '\n':
		case '\\', '\'', '"':
			out = append(out, rune(esc))
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, '\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(body) && j < i+2 && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			value, _ := strconv.ParseUint(string(esc)+body[i:j], 8, 32)
			out = append(out, rune(value))
			i = j
		case 'x':
			out, i = appendHexEscape(out, body, i, 2, `\x`)
		case 'u', 'U':
			if isBytes {
				out = append(out, '\\', rune(esc))
				continue
			}
			width := 4
			if esc == 'U' {
				width = 8
			}
			out, i = appendHexEscape(out, body, i, width, `\`+string(esc))
		case 'N':
			if isBytes {
				out = append(out, '\\', 'N')
				continue
			}
			out, i = appendNamedEscape(out, body, i)
		default:
			out = append(out, '\\', rune(esc))
		}
	}

	return out
}

// appendHexEscape decodes width hex digits at body[i:], or keeps the escape
// text when they are missing
func appendHexEscape(out []rune, body string, i, width int, escape string) ([]rune, int) {
	if i+width > len(body) {
		return append(out, []rune(escape)...), i
	}
	value, err := strconv.ParseUint(body[i:i+width], 16, 32)
	if err != nil {
		return append(out, []rune(escape)...), i
	}
	return append(out, rune(value)), i + width
}

// appendNamedEscape decodes the {NAME} of a \N escape at body[i:], or keeps
// the escape text when the name is unknown
func appendNamedEscape(out []rune, body string, i int) ([]rune, int) {
	end := strings.IndexByte(body[i:], '}')
	if i >= len(body) || body[i] != '{' || end < 0 {
		return append(out, '\\', 'N'), i
	}
	if r, ok := lookupRuneName(body[i+1 : i+end]); ok {
		return append(out, r), i + end + 1
	}
	return append(out, []rune(`\N`+body[i:i+end+1])...), i + end + 1
}

var (
	runeNamesOnce sync.Once
	runesByName   map[string]rune
)

// lookupRuneName resolves a Unicode character name, case-insensitively
func lookupRuneName(name string) (rune, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if hex, ok := strings.CutPrefix(name, "CJK UNIFIED IDEOGRAPH-"); ok {
		value, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, false
		}
		return rune(value), true
	}

	runeNamesOnce.Do(func() {
		runesByName = make(map[string]rune, 40000)
		for r := rune(0); r <= unicode.MaxRune; r++ {
			if n := runenames.Name(r); n != "" && !strings.HasPrefix(n, "<") {
				runesByName[n] = r
			}
		}
	})
	r, ok := runesByName[name]
	return r, ok
}

// renderStrings merges adjacent string literal tokens and renders the
// result the way Python's repr prints the value
func renderStrings(tokens []string) string {
	lits := make([]stringLiteral, 0, len(tokens))
	for _, tok := range tokens {
		lit := parseStringLiteral(tok)
		if lit.isF {
			return renderFString(tokens)
		}
		lits = append(lits, lit)
	}

	merged := stringLiteral{isBytes: len(lits) > 0 && lits[0].isBytes}
	for _, lit := range lits {
		merged.value = append(merged.value, lit.value...)
	}

	if merged.isBytes {
		return "b" + reprString(merged.value, true)
	}
	return reprString(merged.value, false)
}

// renderFString merges a concatenation holding an f-string into a single
// f-string, the way Python prints the joined literal. Plain parts become
// literal text and a self-documenting {expr=} field becomes expr={expr!r}.
func renderFString(tokens []string) string {
	var sb strings.Builder
	sb.WriteString("f'")
	for _, tok := range tokens {
		prefix := strings.ToLower(stringPrefix(tok))
		body := stringBody(tok[len(prefix):])
		raw := strings.Contains(prefix, "r")
		if strings.Contains(prefix, "f") {
			writeFStringBody(&sb, body, raw)
		} else {
			sb.WriteString(fstringText(body, raw))
		}
	}
	sb.WriteString("'")
	return sb.String()
}

// writeFStringBody splits an f-string body into literal text and
// replacement fields
func writeFStringBody(sb *strings.Builder, body string, raw bool) {
	var text strings.Builder
	flush := func() {
		sb.WriteString(fstringText(text.String(), raw))
		text.Reset()
	}

	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == '\\' && !raw && strings.HasPrefix(body[i:], `\N{`):
			end := strings.IndexByte(body[i:], '}')
			if end < 0 {
				end = len(body) - i - 1
			}
			text.WriteString(body[i : i+end+1])
			i += end + 1
		case c == '\\' && i+1 < len(body):
			text.WriteString(body[i : i+2])
			i += 2
		case (c == '{' || c == '}') && i+1 < len(body) && body[i+1] == c:
			text.WriteByte(c)
			i += 2
		case c == '{':
			end := matchingBrace(body, i)
			if end < 0 {
				text.WriteString(body[i:])
				i = len(body)
				continue
			}
			field := body[i+1 : end]
			i = end + 1
			if expr, ok := selfDocumenting(field); ok {
				text.WriteString(expr)
			}
			flush()
			sb.WriteString(renderField(field))
		default:
			text.WriteByte(c)
			i++
		}
	}
	flush()
}

// fstringText renders literal text of an f-string, braces doubled
func fstringText(text string, raw bool) string {
	if text == "" {
		return ""
	}
	value := []rune(text)
	if !raw {
		value = decodeEscapes(text, false)
	}
	quoted := reprString(value, false)
	inner := quoted[1 : len(quoted)-1]
	inner = strings.ReplaceAll(inner, "{", "{{")
	return strings.ReplaceAll(inner, "}", "}}")
}

// matchingBrace returns the index of the brace closing the field opened at
// body[start], skipping nested brackets and quoted strings
func matchingBrace(body string, start int) int {
	depth := 0
	for i := start; i < len(body); i++ {
		switch c := body[i]; c {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
			if depth == 0 {
				if c != '}' {
					return -1
				}
				return i
			}
		case '\'', '"':
			end := strings.IndexByte(body[i+1:], c)
			if end < 0 {
				return -1
			}
			i += end + 1
		}
	}
	return -1
}

// splitField splits a replacement field into expression, conversion and
// format spec
func splitField(field string) (expr, conversion, spec string) {
	depth := 0
	for i := 0; i < len(field); i++ {
		switch c := field[i]; c {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case '\'', '"':
			if end := strings.IndexByte(field[i+1:], c); end >= 0 {
				i += end + 1
			}
		case '!':
			if depth == 0 && (i+1 >= len(field) || field[i+1] != '=') {
				rest := field[i+1:]
				if colon := strings.IndexByte(rest, ':'); colon >= 0 {
					return field[:i], rest[:colon], rest[colon+1:]
				}
				return field[:i], rest, ""
			}
		case ':':
			if depth == 0 {
				return field[:i], "", field[i+1:]
			}
		}
	}
	return field, "", ""
}

// selfDocumenting reports whether field is an {expr=} field and returns
// the literal text it expands to
func selfDocumenting(field string) (string, bool) {
	expr, _, _ := splitField(field)
	trimmed := strings.TrimRight(expr, " \t")
	if !strings.HasSuffix(trimmed, "=") {
		return "", false
	}
	if n := len(trimmed); n >= 2 && strings.ContainsRune("=!<>", rune(trimmed[n-2])) {
		return "", false
	}
	return expr, true
}

// renderField renders one replacement field
func renderField(field string) string {
	expr, conversion, spec := splitField(field)
	if _, ok := selfDocumenting(field); ok {
		expr = strings.TrimSuffix(strings.TrimRight(expr, " \t"), "=")
		if conversion == "" && spec == "" {
			conversion = "r"
		}
	}

	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(strings.TrimSpace(expr))
	if conversion != "" {
		sb.WriteByte('!')
		sb.WriteString(strings.TrimSpace(conversion))
	}
	if spec != "" {
		sb.WriteByte(':')
		sb.WriteString(spec)
	}
	sb.WriteByte('}')
	return sb.String()
}

// reprString quotes value like Python's repr
func reprString(value []rune, isBytes bool) string {
	quote := '\''
	if containsRune(value, '\'') && !containsRune(value, '"') {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteRune(quote)
	for _, r := range value {
		switch {
		case r == quote || r == '\\':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x7f:
			sb.WriteRune(r)
		case isBytes || !unicode.IsPrint(r):
			switch {
			case r < 0x100:
				fmt.Fprintf(&sb, `\x%02x`, r)
			case r < 0x10000:
				fmt.Fprintf(&sb, `\u%04x`, r)
			default:
				fmt.Fprintf(&sb, `\U%08x`, r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(quote)
	return sb.String()
}

func containsRune(value []rune, target rune) bool {
	for _, r := range value {
		if r == target {
			return true
		}
	}
	return false
}
