package stylesheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Sentinel errors
var (
	ErrUnclosedBlock        = errors.New("unclosed block")
	ErrUnexpectedCloseBrace = errors.New("unexpected '}'")
)

// lexeme is one token of the css lexer with its offset in the source
type lexeme struct {
	tt     css.TokenType
	text   string
	offset int
}

func (l lexeme) isDelim(c byte) bool {
	return l.tt == css.DelimToken && len(l.text) == 1 && l.text[0] == c
}

// Parse parses CSS/SCSS source into a tree.
//
// The parser is tolerant: it always returns a tree. Structural problems (stray
// '}' or unclosed blocks) are reported through the error together with the
// partial tree, so callers that only need best-effort results can ignore it.
func Parse(src string) (*Root, error) {
	root := &Root{Text: src, lineStarts: lineStarts(src)}
	root.source = Source{Start: Position{Line: 1, Column: 1, Offset: 0}}

	p := &parser{
		src:     src,
		root:    root,
		lexemes: lex(src),
		stack:   []Container{root},
	}
	p.run()
	root.source.End = root.PositionAt(len(src))

	return root, errors.Join(p.errs...)
}

// MustParse is like Parse but panics on structural errors. Intended for tests and fixtures.
func MustParse(src string) *Root {
	root, err := Parse(src)
	if err != nil {
		panic(fmt.Sprintf("stylesheet: %v", err))
	}
	return root
}

func lineStarts(src string) []int {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lex(src string) []lexeme {
	lexer := css.NewLexer(parse.NewInputString(src))
	result := make([]lexeme, 0, len(src)/3+1)
	offset := 0
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		text := string(data)
		result = append(result, lexeme{tt: tt, text: text, offset: offset})
		offset += len(text)
	}
	return result
}

type parser struct {
	src     string
	root    *Root
	lexemes []lexeme
	stack   []Container

	prelude     []lexeme
	interpDepth int
	parenDepth  int
	errs        []error
}

func (p *parser) current() Container {
	return p.stack[len(p.stack)-1]
}

func (p *parser) run() {
	for i := 0; i < len(p.lexemes); i++ {
		lx := p.lexemes[i]

		switch {
		case lx.tt == css.CommentToken:
			if p.preludeIsBlank() {
				p.prelude = nil
				p.addComment(lx)
			} else {
				p.prelude = append(p.prelude, lx)
			}

		case lx.isDelim('/') && p.parenDepth == 0 && i+1 < len(p.lexemes) && p.lexemes[i+1].isDelim('/'):
			// SCSS line comment: skip up to the end of the line
			i = p.skipLineComment(i)

		case lx.isDelim('#') && i+1 < len(p.lexemes) && p.lexemes[i+1].tt == css.LeftBraceToken:
			p.prelude = append(p.prelude, lx, p.lexemes[i+1])
			p.interpDepth++
			i++

		case lx.tt == css.LeftParenthesisToken || lx.tt == css.FunctionToken:
			p.parenDepth++
			p.prelude = append(p.prelude, lx)

		case lx.tt == css.RightParenthesisToken:
			if p.parenDepth > 0 {
				p.parenDepth--
			}
			p.prelude = append(p.prelude, lx)

		case lx.tt == css.RightBraceToken && p.interpDepth > 0:
			p.interpDepth--
			p.prelude = append(p.prelude, lx)

		case lx.tt == css.LeftBraceToken:
			p.openBlock(lx)

		case lx.tt == css.SemicolonToken && p.parenDepth == 0:
			p.flushStatement(lx.offset)

		case lx.tt == css.RightBraceToken:
			p.closeBlock(lx)

		default:
			p.prelude = append(p.prelude, lx)
		}
	}

	p.flushStatement(len(p.src))
	for len(p.stack) > 1 {
		node := p.current()
		p.errs = append(p.errs, fmt.Errorf("%w: %s opened at %s", ErrUnclosedBlock, Describe(node), node.Source().Start))
		node.setEnd(p.root.PositionAt(len(p.src)))
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *parser) skipLineComment(i int) int {
	for j := i + 2; j < len(p.lexemes); j++ {
		lx := p.lexemes[j]
		if lx.tt == css.WhitespaceToken && strings.Contains(lx.text, "\n") {
			return j
		}
		// block comments may span lines but still end the line comment when they contain a newline
		if strings.Contains(lx.text, "\n") {
			return j
		}
	}
	return len(p.lexemes)
}

func (p *parser) preludeIsBlank() bool {
	for _, lx := range p.prelude {
		if lx.tt != css.WhitespaceToken {
			return false
		}
	}
	return true
}

// trimmedPrelude returns the prelude text without surrounding whitespace and its start offset.
func (p *parser) trimmedPrelude() (string, int) {
	var builder strings.Builder
	start := -1
	for _, lx := range p.prelude {
		if start < 0 {
			if lx.tt == css.WhitespaceToken {
				continue
			}
			start = lx.offset
		}
		builder.WriteString(lx.text)
	}
	if start < 0 {
		return "", -1
	}
	return strings.TrimRightFunc(builder.String(), isSpace), start
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func (p *parser) addComment(lx lexeme) {
	text := strings.TrimSuffix(strings.TrimPrefix(lx.text, "/*"), "*/")
	comment := &Comment{Text: text}
	comment.source = Source{
		Start: p.root.PositionAt(lx.offset),
		End:   p.root.PositionAt(lx.offset + len(lx.text)),
	}
	p.current().appendChild(comment)
}

func (p *parser) openBlock(lx lexeme) {
	text, start := p.trimmedPrelude()
	p.prelude = nil
	p.parenDepth = 0
	if start < 0 {
		start = lx.offset
	}

	var node Container
	if strings.HasPrefix(text, "@") {
		name, params, paramsOffset := splitAtRule(text, start)
		atRule := &AtRule{Name: name, Params: params, ParamsOffset: paramsOffset, HasBody: true}
		atRule.source.Start = p.root.PositionAt(start)
		node = atRule
	} else {
		rule := &Rule{Selector: text, SelectorOffset: start}
		rule.source.Start = p.root.PositionAt(start)
		node = rule
	}
	p.current().appendChild(node)
	p.stack = append(p.stack, node)
}

func (p *parser) closeBlock(lx lexeme) {
	p.flushStatement(lx.offset)
	if len(p.stack) == 1 {
		p.errs = append(p.errs, fmt.Errorf("%w at %s", ErrUnexpectedCloseBrace, p.root.PositionAt(lx.offset)))
		return
	}
	node := p.current()
	node.setEnd(p.root.PositionAt(lx.offset + 1))
	p.stack = p.stack[:len(p.stack)-1]
}

// flushStatement turns the pending prelude into a declaration or a body-less at-rule.
func (p *parser) flushStatement(end int) {
	text, start := p.trimmedPrelude()
	p.prelude = nil
	p.parenDepth = 0
	p.interpDepth = 0
	if start < 0 {
		return
	}

	if strings.HasPrefix(text, "@") {
		name, params, paramsOffset := splitAtRule(text, start)
		atRule := &AtRule{Name: name, Params: params, ParamsOffset: paramsOffset}
		atRule.source = Source{Start: p.root.PositionAt(start), End: p.root.PositionAt(end)}
		p.current().appendChild(atRule)
		return
	}

	colon := topLevelColon(text)
	if colon < 0 {
		// neither a declaration nor an at-rule: keep nothing
		return
	}
	prop := strings.TrimSpace(text[:colon])
	value := strings.TrimSpace(text[colon+1:])
	decl := &Declaration{Prop: prop, Value: value}
	if trimmed, ok := cutImportant(value); ok {
		decl.Value = trimmed
		decl.Important = true
	}
	decl.source = Source{Start: p.root.PositionAt(start), End: p.root.PositionAt(end)}
	p.current().appendChild(decl)
}

func splitAtRule(text string, start int) (name, params string, paramsOffset int) {
	i := 1
	for i < len(text) && !isSpace(rune(text[i])) && text[i] != '(' && text[i] != '{' && text[i] != ';' {
		i++
	}
	name = text[1:i]
	rest := text[i:]
	trimmedLeft := strings.TrimLeftFunc(rest, isSpace)
	paramsOffset = start + i + (len(rest) - len(trimmedLeft))
	params = strings.TrimRightFunc(trimmedLeft, isSpace)
	return name, params, paramsOffset
}

// topLevelColon finds the property/value separator, ignoring colons in interpolations and strings.
func topLevelColon(text string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#' && i+1 < len(text) && text[i+1] == '{':
			depth++
			i++
		case c == '}' && depth > 0:
			depth--
		case c == ':' && depth == 0:
			return i
		}
	}
	return -1
}

func cutImportant(value string) (string, bool) {
	lower := strings.ToLower(value)
	idx := strings.LastIndex(lower, "!important")
	if idx < 0 || strings.TrimSpace(lower[idx+len("!important"):]) != "" {
		return value, false
	}
	return strings.TrimSpace(value[:idx]), true
}
