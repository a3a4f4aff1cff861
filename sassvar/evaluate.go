package sassvar

import (
	"slices"
	"strings"

	pc "github.com/shibukawa/parsercombinator"
)

type tokenKind int

const (
	wordToken     tokenKind = iota // plain text: .block, __el, >
	stringToken                    // "quoted" or 'quoted'
	variableToken                  // $name
	ampToken                       // &
	interpToken                    // #{...}
	plusToken                      // +
	spaceToken                     // whitespace
	otherToken                     // anything outside the grammar: operators, parentheses
	termToken                      // produced by the grammar
)

// valueToken is a token of a variable value
type valueToken struct {
	kind   tokenKind
	text   string // word text, unquoted string content, variable name or interpolation body
	offset int
	pieces []valueToken // for termToken
}

var (
	word        = primitive(wordToken)
	str         = primitive(stringToken)
	variable    = primitive(variableToken)
	amp         = primitive(ampToken)
	interp      = primitive(interpToken)
	joiner      = primitive(plusToken, spaceToken)
	piece       = pc.Or(interp, word, amp)
	compoundSeq = pc.Seq(piece, pc.ZeroOrMore("piece", piece))

	// term = string | variable | piece+
	term = pc.Or(
		pc.Trans(str, toTerm),
		pc.Trans(variable, toTerm),
		pc.Trans(compoundSeq, toTerm),
	)

	// expression = term ((+ | space) term)* EOS
	expression = pc.Seq(
		term,
		pc.ZeroOrMore("concatenation", pc.Seq(joiner, term)),
		pc.EOS[valueToken](),
	)
)

func primitive(kinds ...tokenKind) pc.Parser[valueToken] {
	return func(pctx *pc.ParseContext[valueToken], tokens []pc.Token[valueToken]) (int, []pc.Token[valueToken], error) {
		if len(tokens) > 0 && slices.Contains(kinds, tokens[0].Val.kind) {
			return 1, tokens[:1], nil
		}
		return 0, nil, pc.ErrNotMatch
	}
}

func toTerm(pctx *pc.ParseContext[valueToken], tokens []pc.Token[valueToken]) ([]pc.Token[valueToken], error) {
	pieces := make([]valueToken, 0, len(tokens))
	for _, t := range tokens {
		pieces = append(pieces, t.Val)
	}
	return []pc.Token[valueToken]{
		{
			Type: "term",
			Pos:  tokens[0].Pos,
			Val:  valueToken{kind: termToken, offset: tokens[0].Val.offset, pieces: pieces},
			Raw:  joinRaw(tokens),
		},
	}, nil
}

func joinRaw(tokens []pc.Token[valueToken]) string {
	var builder strings.Builder
	for _, t := range tokens {
		builder.WriteString(t.Raw)
	}
	return builder.String()
}

// Evaluate statically evaluates a variable value or interpolation body.
//
// Supported: bare words, quoted strings, "&", variable references, #{&} and
// #{$var} interpolation inside words, and concatenation with "+" or whitespace.
// context is what "&" refers to; nil makes "&" unresolvable. Anything else
// (function calls, arithmetic, unknown or unresolved variables) returns false.
func Evaluate(expr string, scope *Scope, context *string) (string, bool) {
	value, _ := cutFlags(expr)
	if value == "" {
		return "", false
	}
	tokens, ok := lexValue(value)
	if !ok {
		return "", false
	}

	pctx := pc.NewParseContext[valueToken]()
	_, parsed, err := expression(pctx, tokens)
	if err != nil {
		return "", false
	}

	e := &evaluator{scope: scope, context: context}
	var builder strings.Builder
	for _, t := range parsed {
		switch t.Val.kind {
		case termToken:
			v, ok := e.term(t.Val)
			if !ok {
				return "", false
			}
			builder.WriteString(v)
		case spaceToken:
			builder.WriteByte(' ')
		case plusToken:
			// concatenation
		}
	}
	return builder.String(), true
}

type evaluator struct {
	scope   *Scope
	context *string
}

func (e *evaluator) term(t valueToken) (string, bool) {
	var builder strings.Builder
	for _, p := range t.pieces {
		v, ok := e.piece(p)
		if !ok {
			return "", false
		}
		builder.WriteString(v)
	}
	return builder.String(), true
}

func (e *evaluator) piece(p valueToken) (string, bool) {
	switch p.kind {
	case wordToken:
		return p.text, true
	case ampToken:
		return e.amp()
	case variableToken:
		return e.lookup(p.text)
	case interpToken:
		return e.interpolation(p.text)
	case stringToken:
		return e.interpolateString(p.text)
	}
	return "", false
}

func (e *evaluator) amp() (string, bool) {
	if e.context == nil {
		return "", false
	}
	return *e.context, true
}

func (e *evaluator) lookup(name string) (string, bool) {
	if e.scope == nil {
		return "", false
	}
	return e.scope.Value(name)
}

// interpolation evaluates #{&} and #{$var}.
func (e *evaluator) interpolation(body string) (string, bool) {
	body = strings.TrimSpace(body)
	switch {
	case body == "&":
		return e.amp()
	case isVariableName(body):
		return e.lookup(body)
	}
	return "", false
}

// interpolateString replaces #{...} inside string content.
func (e *evaluator) interpolateString(content string) (string, bool) {
	var builder strings.Builder
	for {
		start := strings.Index(content, "#{")
		if start < 0 {
			builder.WriteString(content)
			return builder.String(), true
		}
		end := strings.IndexByte(content[start:], '}')
		if end < 0 {
			return "", false
		}
		v, ok := e.interpolation(content[start+2 : start+end])
		if !ok {
			return "", false
		}
		builder.WriteString(content[:start])
		builder.WriteString(v)
		content = content[start+end+1:]
	}
}

func isVariableName(s string) bool {
	if len(s) < 2 || s[0] != '$' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c >= 0x80
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// lexValue splits a value into tokens. Whitespace around "+" is dropped.
func lexValue(value string) ([]pc.Token[valueToken], bool) {
	var raw []valueToken
	for i := 0; i < len(value); {
		c := value[i]
		start := i
		switch {
		case isSpace(c):
			for i < len(value) && isSpace(value[i]) {
				i++
			}
			raw = append(raw, valueToken{kind: spaceToken, text: value[start:i], offset: start})
		case c == '"' || c == '\'':
			i++
			for i < len(value) && value[i] != c {
				if value[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(value) {
				return nil, false
			}
			i++
			raw = append(raw, valueToken{kind: stringToken, text: value[start+1 : i-1], offset: start})
		case c == '$':
			i++
			for i < len(value) && isNameChar(value[i]) {
				i++
			}
			if i == start+1 {
				return nil, false
			}
			raw = append(raw, valueToken{kind: variableToken, text: value[start:i], offset: start})
		case c == '&':
			i++
			raw = append(raw, valueToken{kind: ampToken, text: "&", offset: start})
		case c == '#' && i+1 < len(value) && value[i+1] == '{':
			end := strings.IndexByte(value[i:], '}')
			if end < 0 {
				return nil, false
			}
			i += end + 1
			raw = append(raw, valueToken{kind: interpToken, text: value[start+2 : i-1], offset: start})
		case c == '+':
			i++
			raw = append(raw, valueToken{kind: plusToken, text: "+", offset: start})
		case strings.IndexByte("*/()=<{};!@", c) >= 0:
			i++
			raw = append(raw, valueToken{kind: otherToken, text: value[start:i], offset: start})
		default:
			for i < len(value) {
				d := value[i]
				if isSpace(d) || strings.IndexByte("\"'$&+*/()=<{};!@", d) >= 0 || (d == '#' && i+1 < len(value) && value[i+1] == '{') {
					break
				}
				if d == '\\' && i+1 < len(value) {
					i++
				}
				i++
			}
			text := value[start:i]
			kind := wordToken
			if text == "-" {
				kind = otherToken
			}
			raw = append(raw, valueToken{kind: kind, text: text, offset: start})
		}
	}

	result := make([]pc.Token[valueToken], 0, len(raw))
	for i, t := range raw {
		if t.kind == spaceToken && ((i > 0 && raw[i-1].kind == plusToken) || (i+1 < len(raw) && raw[i+1].kind == plusToken)) {
			continue
		}
		result = append(result, pc.Token[valueToken]{
			Type: "raw",
			Pos:  &pc.Pos{Line: 1, Col: t.offset + 1, Index: t.offset},
			Val:  t,
			Raw:  value[t.offset : t.offset+rawLength(value, t)],
		})
	}
	return result, true
}

func rawLength(value string, t valueToken) int {
	switch t.kind {
	case stringToken:
		return len(t.text) + 2
	case interpToken:
		return len(t.text) + 3
	}
	return len(t.text)
}
