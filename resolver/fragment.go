package resolver

import (
	"strings"

	"github.com/shibukawa/bemselector/sassvar"
)

// FragmentKind tells where a piece of a resolved selector comes from
type FragmentKind int

const (
	ContextFragment       FragmentKind = iota // implicit ancestor prefix, "parent "
	LiteralFragment                           // text copied from the source
	NestingFragment                           // & or #{&} replaced by the parent selector
	InterpolationFragment                     // #{...} replaced by a variable value
)

// String returns the string representation of FragmentKind
func (k FragmentKind) String() string {
	switch k {
	case ContextFragment:
		return "context"
	case LiteralFragment:
		return "literal"
	case NestingFragment:
		return "nesting"
	case InterpolationFragment:
		return "interpolation"
	default:
		return "unknown"
	}
}

// Range is a half-open [Start, End) byte range.
type Range struct {
	Start int
	End   int
}

// Len returns the length of the range
func (r Range) Len() int { return r.End - r.Start }

// Shift moves the range by delta
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

func (r Range) intersect(other Range) (Range, bool) {
	result := Range{Start: max(r.Start, other.Start), End: min(r.End, other.End)}
	return result, result.Start < result.End
}

// Fragment maps a range of the resolved selector to the source text it came from.
type Fragment struct {
	Kind FragmentKind
	// Text is the source text of the fragment ("&", "#{$b}", literal text); empty for context.
	Text     string
	Source   Range
	Resolved Range
}

type segmentKind int

const (
	literalSegment segmentKind = iota
	nestingSegment
	interpolationSegment
)

type segment struct {
	kind  segmentKind
	start int
	end   int
	body  string // interpolation body
}

// scan splits a selector into literal text, nesting (& / #{&}) and interpolations.
// Escaped "&" and "&" inside strings are literal.
func scan(value string) []segment {
	var segments []segment
	literalStart := 0
	flush := func(end int) {
		if end > literalStart {
			segments = append(segments, segment{kind: literalSegment, start: literalStart, end: end})
		}
	}

	for i := 0; i < len(value); {
		c := value[i]
		switch {
		case c == '\\':
			i += 2
		case c == '"' || c == '\'':
			i++
			for i < len(value) && value[i] != c {
				if value[i] == '\\' {
					i++
				}
				i++
			}
			i++
		case c == '#' && i+1 < len(value) && value[i+1] == '{':
			end := matchingBrace(value, i+1)
			if end < 0 {
				i = len(value)
				continue
			}
			flush(i)
			body := value[i+2 : end]
			kind := interpolationSegment
			if strings.TrimSpace(body) == "&" {
				kind = nestingSegment
			}
			segments = append(segments, segment{kind: kind, start: i, end: end + 1, body: body})
			i = end + 1
			literalStart = i
		case c == '&':
			flush(i)
			segments = append(segments, segment{kind: nestingSegment, start: i, end: i + 1})
			i++
			literalStart = i
		default:
			i++
		}
	}
	flush(len(value))
	return segments
}

func matchingBrace(value string, open int) int {
	depth := 0
	for i := open; i < len(value); i++ {
		switch value[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// expansion is a selector with its nesting and interpolations substituted.
type expansion struct {
	text          string
	fragments     []Fragment
	hasNesting    bool
	substitutions map[string]string
}

// expand substitutes "&" with context (when there is one) and interpolations with
// their values. Unresolvable interpolations are kept as written.
func expand(value string, scope *sassvar.Scope, context *string) expansion {
	var (
		builder strings.Builder
		ex      expansion
	)
	add := func(kind FragmentKind, seg segment, text string) {
		start := builder.Len()
		builder.WriteString(text)
		ex.fragments = append(ex.fragments, Fragment{
			Kind:     kind,
			Text:     value[seg.start:seg.end],
			Source:   Range{Start: seg.start, End: seg.end},
			Resolved: Range{Start: start, End: builder.Len()},
		})
	}
	substitute := func(token, text string) {
		if ex.substitutions == nil {
			ex.substitutions = make(map[string]string)
		}
		ex.substitutions[token] = text
	}

	for _, seg := range scan(value) {
		raw := value[seg.start:seg.end]
		switch seg.kind {
		case nestingSegment:
			ex.hasNesting = true
			if context == nil {
				add(LiteralFragment, seg, raw)
				continue
			}
			add(NestingFragment, seg, *context)
			substitute(raw, *context)
		case interpolationSegment:
			resolved, ok := sassvar.Evaluate(seg.body, scope, context)
			if !ok {
				add(LiteralFragment, seg, raw)
				continue
			}
			add(InterpolationFragment, seg, resolved)
			substitute(raw, resolved)
		default:
			add(LiteralFragment, seg, raw)
		}
	}
	ex.text = builder.String()
	return ex
}
