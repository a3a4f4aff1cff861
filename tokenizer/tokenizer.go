package tokenizer

import (
	"fmt"
	"iter"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// MaxArgumentDepth bounds how deeply selector arguments of pseudo-classes nest.
const MaxArgumentDepth = 64

// selectorPseudos are pseudo-classes whose argument is a selector list.
var selectorPseudos = map[string]bool{
	"is":           true,
	"not":          true,
	"has":          true,
	"where":        true,
	"matches":      true,
	"any":          true,
	"-webkit-any":  true,
	"-moz-any":     true,
	"global":       true,
	"local":        true,
	"host":         true,
	"host-context": true,
	"slotted":      true,
	"current":      true,
	"past":         true,
	"future":       true,
}

// Tokenize splits a selector list into branches of atomic nodes.
// It returns an empty result when the selector cannot be parsed.
func Tokenize(selector string) []*Selector {
	selectors, err := Parse(selector)
	if err != nil {
		return nil
	}
	return selectors
}

// Parse is like Tokenize but reports why the selector could not be parsed.
func Parse(selector string) ([]*Selector, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, nil
	}
	lexemes := lex(selector)
	p := &parser{input: selector, lexemes: lexemes, end: len(lexemes)}
	return p.readSelectorList()
}

// Nodes returns a depth-first iterator over all nodes, including pseudo arguments.
func Nodes(selectors []*Selector) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walkNodes(selectors, yield)
	}
}

func walkNodes(selectors []*Selector, yield func(*Node) bool) bool {
	for _, s := range selectors {
		for _, n := range s.Nodes {
			if !yield(n) {
				return false
			}
			if len(n.Arguments) > 0 && !walkNodes(n.Arguments, yield) {
				return false
			}
		}
	}
	return true
}

// lexeme is one token of the css lexer with its offset in the selector
type lexeme struct {
	tt     css.TokenType
	text   string
	offset int
}

func (l lexeme) isDelim(c byte) bool {
	return l.tt == css.DelimToken && len(l.text) == 1 && l.text[0] == c
}

func (l lexeme) end() int {
	return l.offset + len(l.text)
}

func lex(input string) []lexeme {
	var (
		result []lexeme
		offset int
	)
	lexer := css.NewLexer(parse.NewInputString(input))
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			return result
		}
		if tt == css.UnicodeRangeToken {
			// "u+a" in a selector is a tag and a sibling combinator
			result = append(result,
				lexeme{tt: css.IdentToken, text: input[offset : offset+1], offset: offset},
				lexeme{tt: css.DelimToken, text: "+", offset: offset + 1},
			)
			offset += 2
			lexer = css.NewLexer(parse.NewInputString(input[offset:]))
			continue
		}
		text := string(data)
		result = append(result, lexeme{tt: tt, text: text, offset: offset})
		offset += len(text)
	}
}

// parser reads nodes from lexemes[pos:end]. Pseudo arguments are read by a
// parser over the sub-range between the parentheses.
type parser struct {
	input   string
	lexemes []lexeme
	pos     int
	end     int
	depth   int
}

func (p *parser) done() bool {
	return p.pos >= p.end
}

func (p *parser) current() lexeme {
	return p.lexemes[p.pos]
}

func (p *parser) peek(n int) (lexeme, bool) {
	if p.pos+n >= p.end {
		return lexeme{}, false
	}
	return p.lexemes[p.pos+n], true
}

// offset returns the offset of the current lexeme, or of the end of the range.
func (p *parser) offset() int {
	if p.pos < p.end {
		return p.lexemes[p.pos].offset
	}
	if p.end < len(p.lexemes) {
		return p.lexemes[p.end].offset
	}
	return len(p.input)
}

func (p *parser) errorf(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s at %d", err, fmt.Sprintf(format, args...), p.offset())
}

// readSelectorList reads comma-separated branches up to the end of the range.
func (p *parser) readSelectorList() ([]*Selector, error) {
	var result []*Selector
	for {
		sel, err := p.readSelector()
		if err != nil {
			return nil, err
		}
		result = append(result, sel)

		if p.done() {
			return result, nil
		}
		// readSelector stops at a comma
		p.pos++
	}
}

func (p *parser) readSelector() (*Selector, error) {
	sel := &Selector{SourceIndex: p.offset()}
	sel.Before = p.readWhitespace()

	for !p.done() && p.current().tt != css.CommaToken {
		lx := p.current()

		var (
			node *Node
			err  error
		)
		switch {
		case lx.tt == css.WhitespaceToken:
			ws := p.readWhitespace()
			if p.done() || p.current().tt == css.CommaToken {
				sel.After = ws
				continue
			}
			if isCombinator(p.current()) {
				node = p.readCombinator(lx.offset, ws)
			} else {
				node = &Node{Type: COMBINATOR, Value: " ", Raw: ws, SourceIndex: lx.offset}
			}
		case isCombinator(lx):
			node = p.readCombinator(lx.offset, "")
		case lx.isDelim('.') || isDotNumber(lx):
			node, err = p.readClass()
		case lx.tt == css.HashToken:
			node, err = p.readID()
		case p.atNestingInterpolation():
			node = p.readNestingInterpolation()
		case p.atInterpolation():
			node, err = p.readTag()
		case lx.isDelim('#'):
			err = p.errorf(ErrExpectedName, "after '#'")
		case lx.isDelim('&'):
			node = p.readSingle(NESTING)
		case lx.isDelim('*'):
			node = p.readSingle(UNIVERSAL)
		case lx.tt == css.LeftBracketToken:
			node, err = p.readAttribute()
		case lx.tt == css.ColonToken:
			node, err = p.readPseudo()
		case lx.tt == css.CommentToken:
			node, err = p.readComment()
		case lx.isDelim('%'):
			node, err = p.readPlaceholder()
		case isNamePart(lx):
			node, err = p.readTag()
		default:
			err = p.errorf(ErrUnexpectedCharacter, "%q", lx.text)
		}
		if err != nil {
			return nil, err
		}
		sel.Nodes = append(sel.Nodes, node)
	}

	if len(sel.Nodes) == 0 {
		return nil, p.errorf(ErrEmptySelector, "branch %d", sel.SourceIndex)
	}
	return sel, nil
}

func (p *parser) readWhitespace() string {
	start := p.offset()
	for !p.done() && p.current().tt == css.WhitespaceToken {
		p.pos++
	}
	return p.input[start:p.offset()]
}

func (p *parser) readCombinator(start int, before string) *Node {
	op := p.current().text
	p.pos++
	after := p.readWhitespace()
	return &Node{Type: COMBINATOR, Value: op, Raw: before + op + after, SourceIndex: start}
}

func (p *parser) readSingle(nodeType NodeType) *Node {
	lx := p.current()
	p.pos++
	return &Node{Type: nodeType, Value: lx.text, Raw: lx.text, SourceIndex: lx.offset}
}

// readName reads adjacent name lexemes and interpolations other than #{&}.
func (p *parser) readName() (string, error) {
	start := p.offset()
	for !p.done() {
		lx := p.current()
		switch {
		case p.atNestingInterpolation():
			return p.input[start:p.offset()], nil
		case p.atInterpolation():
			if err := p.skipInterpolation(); err != nil {
				return "", err
			}
		case lx.isDelim('\\'):
			return "", p.errorf(ErrUnexpectedCharacter, "dangling escape")
		case isNamePart(lx):
			p.pos++
		default:
			return p.input[start:p.offset()], nil
		}
	}
	return p.input[start:p.offset()], nil
}

// readClass reads ".name". The lexer reads ".5x" as one numeric lexeme.
func (p *parser) readClass() (*Node, error) {
	start := p.offset()
	p.pos++
	if _, err := p.readName(); err != nil {
		return nil, err
	}
	raw := p.input[start:p.offset()]
	if len(raw) == 1 {
		return nil, p.errorf(ErrExpectedName, "after '.'")
	}
	return &Node{Type: CLASS, Value: raw[1:], Raw: raw, SourceIndex: start}, nil
}

func (p *parser) readID() (*Node, error) {
	start := p.offset()
	p.pos++
	if _, err := p.readName(); err != nil {
		return nil, err
	}
	raw := p.input[start:p.offset()]
	return &Node{Type: ID, Value: raw[1:], Raw: raw, SourceIndex: start}, nil
}

func (p *parser) readTag() (*Node, error) {
	start := p.offset()
	name, err := p.readName()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, p.errorf(ErrUnexpectedCharacter, "%q", p.current().text)
	}
	return &Node{Type: TAG, Value: name, Raw: name, SourceIndex: start}, nil
}

func (p *parser) readPlaceholder() (*Node, error) {
	start := p.offset()
	p.pos++
	if _, err := p.readName(); err != nil {
		return nil, err
	}
	raw := p.input[start:p.offset()]
	return &Node{Type: TAG, Value: raw, Raw: raw, SourceIndex: start}, nil
}

// atInterpolation reports whether the lexer split "#{" at the current position.
func (p *parser) atInterpolation() bool {
	next, ok := p.peek(1)
	return p.current().isDelim('#') && ok && next.tt == css.LeftBraceToken
}

// atNestingInterpolation reports whether "#", "{", "&", "}" (with optional
// whitespace) start at the current position.
func (p *parser) atNestingInterpolation() bool {
	return p.nestingInterpolationEnd() > 0
}

// nestingInterpolationEnd returns the number of lexemes of #{&}, or 0.
func (p *parser) nestingInterpolationEnd() int {
	if !p.atInterpolation() {
		return 0
	}
	n := 2
	expect := []func(lexeme) bool{
		func(l lexeme) bool { return l.isDelim('&') },
		func(l lexeme) bool { return l.tt == css.RightBraceToken },
	}
	for _, matches := range expect {
		lx, ok := p.peek(n)
		if ok && lx.tt == css.WhitespaceToken {
			n++
			lx, ok = p.peek(n)
		}
		if !ok || !matches(lx) {
			return 0
		}
		n++
	}
	return n
}

// readNestingInterpolation joins the lexemes of #{&} into one nesting node.
func (p *parser) readNestingInterpolation() *Node {
	start := p.offset()
	p.pos += p.nestingInterpolationEnd()
	return &Node{Type: NESTING, Value: "#{&}", Raw: p.input[start:p.offset()], SourceIndex: start}
}

func (p *parser) skipInterpolation() error {
	p.pos += 2
	depth := 1
	for ; !p.done(); p.pos++ {
		switch p.current().tt {
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
	}
	return p.errorf(ErrUnbalancedBracket, "missing '}'")
}

func (p *parser) readAttribute() (*Node, error) {
	start := p.offset()
	p.pos++
	depth := 1
	for depth > 0 {
		if p.done() {
			return nil, p.errorf(ErrUnbalancedBracket, "missing ']'")
		}
		lx := p.current()
		switch lx.tt {
		case css.StringToken, css.BadStringToken:
			if !closedString(lx) {
				return nil, p.errorf(ErrUnterminatedString, "missing %q", lx.text[0])
			}
		case css.LeftBracketToken:
			depth++
		case css.RightBracketToken:
			depth--
		}
		p.pos++
	}
	raw := p.input[start:p.offset()]
	return &Node{Type: ATTRIBUTE, Value: strings.TrimSpace(raw[1 : len(raw)-1]), Raw: raw, SourceIndex: start}, nil
}

func (p *parser) readPseudo() (*Node, error) {
	start := p.offset()
	p.pos++
	if !p.done() && p.current().tt == css.ColonToken {
		p.pos++
	}
	if p.done() {
		return nil, p.errorf(ErrExpectedName, "after ':'")
	}
	node := &Node{Type: PSEUDO, SourceIndex: start}

	if lx := p.current(); lx.tt == css.FunctionToken {
		name := strings.TrimSuffix(lx.text, "(")
		node.Value = p.input[start:lx.offset] + name
		p.pos++
		if err := p.readArguments(node, name, lx.end()); err != nil {
			return nil, err
		}
	} else {
		name, err := p.readName()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, p.errorf(ErrExpectedName, "after ':'")
		}
		node.Value = p.input[start:p.offset()]
		if !p.done() && p.current().tt == css.LeftParenthesisToken {
			argStart := p.current().end()
			p.pos++
			if err := p.readArguments(node, name, argStart); err != nil {
				return nil, err
			}
		}
	}
	node.Raw = p.input[start:p.offset()]
	return node, nil
}

// readArguments reads up to the parenthesis closing the one just consumed.
func (p *parser) readArguments(node *Node, name string, argStart int) error {
	closing, err := p.matchingParenthesis()
	if err != nil {
		return err
	}
	node.HasParens = true
	node.Argument = p.input[argStart:p.lexemes[closing].offset]

	if selectorPseudos[strings.ToLower(name)] {
		if p.depth >= MaxArgumentDepth {
			return p.errorf(ErrNestingTooDeep, "more than %d levels", MaxArgumentDepth)
		}
		sub := &parser{input: p.input, lexemes: p.lexemes, pos: p.pos, end: closing, depth: p.depth + 1}
		args, err := sub.readSelectorList()
		if err != nil {
			return err
		}
		node.Arguments = args
	}
	p.pos = closing + 1
	return nil
}

func (p *parser) matchingParenthesis() (int, error) {
	depth := 1
	for i := p.pos; i < p.end; i++ {
		switch lx := p.lexemes[i]; lx.tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 {
				return i, nil
			}
		case css.StringToken, css.BadStringToken:
			if !closedString(lx) {
				return 0, fmt.Errorf("%w: missing %q at %d", ErrUnterminatedString, lx.text[0], lx.offset)
			}
		}
	}
	return 0, p.errorf(ErrUnbalancedBracket, "missing ')'")
}

func (p *parser) readComment() (*Node, error) {
	lx := p.current()
	if len(lx.text) < 4 || !strings.HasSuffix(lx.text, "*/") {
		return nil, p.errorf(ErrUnterminatedComment, "missing '*/'")
	}
	p.pos++
	return &Node{Type: COMMENT, Value: lx.text[2 : len(lx.text)-2], Raw: lx.text, SourceIndex: lx.offset}, nil
}

func isCombinator(l lexeme) bool {
	return l.isDelim('>') || l.isDelim('+') || l.isDelim('~')
}

// isNamePart reports whether l continues an identifier. Numbers count unless
// they start a new class (".5") or carry a sign.
func isNamePart(l lexeme) bool {
	switch l.tt {
	case css.IdentToken, css.CustomPropertyNameToken:
		return true
	case css.NumberToken, css.DimensionToken:
		return l.text[0] >= '0' && l.text[0] <= '9' || l.text[0] == '-'
	}
	return l.isDelim('-')
}

func isDotNumber(l lexeme) bool {
	return (l.tt == css.NumberToken || l.tt == css.DimensionToken) && l.text[0] == '.'
}

// closedString reports whether a string lexeme ends with its unescaped quote.
func closedString(l lexeme) bool {
	text := l.text
	if l.tt != css.StringToken || len(text) < 2 || text[len(text)-1] != text[0] {
		return false
	}
	backslashes := 0
	for i := len(text) - 2; i > 0 && text[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}
