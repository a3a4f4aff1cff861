package nesting

import "strings"

// Part is one comma-separated part of a selector list.
type Part struct {
	// Value is the trimmed text of the part.
	Value string
	// Offset is the offset of Value in the split string.
	Offset int
}

// Split splits s on top-level commas. Commas inside strings, parentheses,
// attribute brackets, interpolations or escaped with a backslash are kept.
// Empty parts are dropped.
func Split(s string) []Part {
	var parts []Part
	depth := 0
	var quote byte
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = appendPart(parts, s, start, i)
			start = i + 1
		}
	}
	return appendPart(parts, s, start, len(s))
}

func appendPart(parts []Part, s string, start, end int) []Part {
	raw := s[start:end]
	trimmedLeft := strings.TrimLeft(raw, " \t\n\r\f")
	value := strings.TrimRight(trimmedLeft, " \t\n\r\f")
	if value == "" {
		return parts
	}
	return append(parts, Part{Value: value, Offset: start + len(raw) - len(trimmedLeft)})
}
