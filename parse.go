package oliver

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Parse converts Oliver source text into the initial code expression that
// Evaluator.Eval consumes. The returned expression has not been trimmed;
// Eval performs that step itself.
//
// The source bytes are validated as well-formed UTF-8 before lexing even
// begins: bufio.Reader.ReadRune, which the lexer uses throughout, silently
// substitutes U+FFFD for any ill-formed byte sequence rather than erroring,
// so this is the only point where genuinely invalid input can still be
// rejected instead of quietly mangled.
func Parse(source io.Reader) (*Expression, error) {
	raw, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("oliver: reading source: %w", err)
	}
	if err := validateUTF8(raw); err != nil {
		return nil, err
	}
	src := bufio.NewReader(bytes.NewReader(raw))
	tokens := make(chan token)
	go lex(src, tokens)
	vals, _, parseErr := parseSequence(tokens, "")
	if parseErr != nil {
		return nil, parseErr
	}
	return NewExpression(vals...), nil
}

// ParseString is a convenience wrapper around Parse for source held in a Go
// string.
func ParseString(source string) (*Expression, error) {
	return Parse(strings.NewReader(source))
}

// closers maps an opening bracket spelling to the spelling that must close
// it, for structural error reporting.
var closers = map[string]string{
	"(": ")",
	"[": "]",
	"{": "}",
	":": ";",
}

// parseSequence consumes tokens until a matching closer is found (want, the
// expected close spelling, or "" for top level, which runs until the
// channel closes), returning the values collected in source order.
func parseSequence(tokens <-chan token, want string) ([]Value, string, error) {
	var vals []Value
	for tok := range tokens {
		switch tok.Kind {
		case badToken:
			return nil, "", fmt.Errorf("oliver: parse error at line %d col %d: %w", tok.Line, tok.Col, tok.Err)
		case commentToken:
			continue
		case commaToken:
			continue
		case periodToken:
			vals = append(vals, NewOpCall(Index))
		case openToken:
			inner, got, err := parseSequence(tokens, closers[tok.Value])
			if err != nil {
				return nil, "", err
			}
			if got != closers[tok.Value] {
				return nil, "", fmt.Errorf("oliver: line %d col %d: expected %q, got end of input", tok.Line, tok.Col, closers[tok.Value])
			}
			vals = append(vals, bracketValue(tok.Value, inner))
		case closeToken:
			if want == "" {
				return nil, "", fmt.Errorf("oliver: line %d col %d: unexpected %q", tok.Line, tok.Col, tok.Value)
			}
			if tok.Value != want {
				return nil, "", fmt.Errorf("oliver: line %d col %d: expected %q, got %q", tok.Line, tok.Col, want, tok.Value)
			}
			return vals, tok.Value, nil
		case stringToken:
			s, err := unescapeString(tok.Value)
			if err != nil {
				return nil, "", fmt.Errorf("oliver: line %d col %d: %w", tok.Line, tok.Col, err)
			}
			vals = append(vals, NewString(s))
		case numberToken:
			n, err := parseNumberLiteral(tok.Value)
			if err != nil {
				return nil, "", fmt.Errorf("oliver: line %d col %d: %w", tok.Line, tok.Col, err)
			}
			vals = append(vals, n)
		case regexToken, formatToken:
			// Neither variant exists in the closed value set; both literal
			// kinds are recognized lexically and carried as plain strings.
			s, err := unescapeString(tok.Value)
			if err != nil {
				return nil, "", fmt.Errorf("oliver: line %d col %d: %w", tok.Line, tok.Col, err)
			}
			vals = append(vals, NewString(s))
		case wordToken:
			vals = append(vals, classifyWord(tok.Value))
		}
	}
	if want != "" {
		return nil, "", fmt.Errorf("oliver: unexpected end of input, expected %q", want)
	}
	return vals, "", nil
}

func bracketValue(open string, inner []Value) Value {
	switch open {
	case "(":
		return NewExpression(inner...)
	case "[":
		return NewList(inner...)
	case "{":
		// No distinct set/object variant exists in the closed value set;
		// {} literals build a List the same way [] does.
		return NewList(inner...)
	case ":":
		return NewScope(NewExpression(inner...))
	default:
		return NewExpression(inner...)
	}
}

// classifyWord turns a bare word token into the value it denotes: a
// boolean literal, nothing, an opcode, or a plain symbol. Boolean and
// nothing literals are checked before the opcode table since "else" is
// both a keyword users write directly (a synonym for boolean true, so
// cond's generated fallback guard is always truthy) and the spelling of
// an opcode the evaluator only ever synthesizes internally for the same
// construct; the literal reading always wins at parse time.
func classifyWord(w string) Value {
	switch w {
	case "nothing":
		return Nil
	case "true", "1", "else":
		return True
	case "false", "0":
		return False
	case "undef":
		return UndefinedBoolean
	}
	if op, ok := tokenOpcodes[w]; ok {
		return NewOpCall(op)
	}
	return NewSymbol(w)
}

// unescapeString interprets the C-style escapes spec.md documents for
// double-quoted string literals: \a \b \f \n \r \t \v \\ \' \". Any other
// backslash sequence is an error rather than silently dropping the
// backslash.
func unescapeString(raw string) (string, error) {
	var b strings.Builder
	rs := []rune(raw)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		i++
		if i >= len(rs) {
			return "", fmt.Errorf("oliver: dangling escape in string literal")
		}
		switch rs[i] {
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		default:
			return "", fmt.Errorf("oliver: unrecognized escape \\%c in string literal", rs[i])
		}
	}
	return b.String(), nil
}

// validateUTF8 rejects source input that is not well-formed UTF-8, using
// the same transcoding package the teacher's string type uses for its own
// encoding validation. It must run against the raw bytes handed to Parse,
// before bufio.Reader.ReadRune gets a chance to substitute U+FFFD for any
// ill-formed sequence and launder the error away.
func validateUTF8(raw []byte) error {
	out, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return fmt.Errorf("oliver: source is not valid UTF-8: %w", err)
	}
	// The decoder replaces each ill-formed sequence with U+FFFD rather than
	// reporting it, so any difference from the input marks invalid UTF-8.
	if !bytes.Equal(out, raw) {
		return fmt.Errorf("oliver: source is not valid UTF-8")
	}
	return nil
}

// parseNumberLiteral parses the content of a '...' literal: a real number,
// or a complex one written as "re,im" or with a trailing i/j marking the
// whole literal (or its comma-separated second half) as the imaginary part.
func parseNumberLiteral(content string) (*Number, error) {
	content = strings.TrimSpace(content)
	imaginary := false
	if strings.HasSuffix(content, "i") || strings.HasSuffix(content, "j") {
		imaginary = true
		content = content[:len(content)-1]
	}
	if idx := strings.IndexByte(content, ','); idx >= 0 {
		reStr, imStr := content[:idx], content[idx+1:]
		re, err := strconv.ParseFloat(strings.TrimSpace(reStr), 64)
		if err != nil {
			return nil, fmt.Errorf("oliver: invalid number literal %q: %w", content, err)
		}
		im, err := strconv.ParseFloat(strings.TrimSpace(imStr), 64)
		if err != nil {
			return nil, fmt.Errorf("oliver: invalid number literal %q: %w", content, err)
		}
		return NewComplex(re, im), nil
	}
	f, err := strconv.ParseFloat(content, 64)
	if err != nil {
		return nil, fmt.Errorf("oliver: invalid number literal %q: %w", content, err)
	}
	if imaginary {
		return NewComplex(0, f), nil
	}
	return NewNumber(f), nil
}
