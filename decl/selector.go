package decl

import (
	"fmt"
	"strings"
)

// Selector is one parsed CSS selector a directive can match with. A zero
// Element matches any tag. Attrs holds name/value pairs flattened as
// [name, value, name, value, ...]; an empty value matches mere presence.
type Selector struct {
	Element    string
	ClassNames []string
	Attrs      []string
	Not        []*Selector
}

// SelectorList is an OR-list: a node matches if any selector matches.
type SelectorList []*Selector

// AddAttribute appends a name/value requirement.
func (s *Selector) AddAttribute(name, value string) {
	s.Attrs = append(s.Attrs, name, value)
}

// AddClassName appends a class requirement.
func (s *Selector) AddClassName(name string) {
	s.ClassNames = append(s.ClassNames, name)
}

// String renders the selector back to CSS form, for diagnostics.
func (s *Selector) String() string {
	var b strings.Builder
	b.WriteString(s.Element)
	for _, c := range s.ClassNames {
		b.WriteByte('.')
		b.WriteString(c)
	}
	for i := 0; i+1 < len(s.Attrs); i += 2 {
		b.WriteByte('[')
		b.WriteString(s.Attrs[i])
		if s.Attrs[i+1] != "" {
			b.WriteByte('=')
			b.WriteString(s.Attrs[i+1])
		}
		b.WriteByte(']')
	}
	for _, n := range s.Not {
		b.WriteString(":not(")
		b.WriteString(n.String())
		b.WriteByte(')')
	}
	return b.String()
}

// ParseSelector parses a comma-separated CSS selector string into a
// SelectorList. Supported syntax: element, .class, [attr], [attr=value],
// :not(...) without nesting. The compiler emits parsed selectors; this
// parser exists for tests and hand-written definitions.
func ParseSelector(selector string) (SelectorList, error) {
	var list SelectorList
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sel, err := parseSimple(part)
		if err != nil {
			return nil, err
		}
		list = append(list, sel)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("empty selector %q", selector)
	}
	return list, nil
}

func parseSimple(s string) (*Selector, error) {
	sel := &Selector{}
	cur := sel
	inNot := false
	i := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], ":not("):
			if inNot {
				return nil, fmt.Errorf("nesting :not in a selector is not allowed")
			}
			inNot = true
			cur = &Selector{}
			sel.Not = append(sel.Not, cur)
			i += len(":not(")
		case s[i] == ')':
			if !inNot {
				return nil, fmt.Errorf("unbalanced ) in selector %q", s)
			}
			inNot = false
			cur = sel
			i++
		case s[i] == '.':
			j := tokenEnd(s, i+1)
			cur.AddClassName(s[i+1 : j])
			i = j
		case s[i] == '[':
			close := strings.IndexByte(s[i:], ']')
			if close < 0 {
				return nil, fmt.Errorf("unterminated attribute in selector %q", s)
			}
			attr := s[i+1 : i+close]
			name, value, _ := strings.Cut(attr, "=")
			value = strings.Trim(value, `"'`)
			cur.AddAttribute(name, value)
			i += close + 1
		default:
			j := tokenEnd(s, i)
			if j == i {
				return nil, fmt.Errorf("unexpected %q in selector %q", s[i], s)
			}
			cur.Element = s[i:j]
			i = j
		}
	}
	if inNot {
		return nil, fmt.Errorf("unterminated :not in selector %q", s)
	}
	return sel, nil
}

func tokenEnd(s string, start int) int {
	i := start
	for i < len(s) {
		c := s[i]
		if c == '.' || c == '[' || c == ':' || c == ')' {
			break
		}
		i++
	}
	return i
}
