package filter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const (
	wrapOpen  = "(\n"
	wrapClose = "\n)"
)

// source is an expression prepared for the Python grammar. The expression is
// wrapped in parentheses so newlines and indentation are insignificant, and the
// C-style connectives are spelled as keywords. origin maps every byte of code
// back to an offset in text.
type source struct {
	text   string
	code   []byte
	origin []int
}

func prepare(expr string) (*source, error) {
	s := &source{text: expr}
	s.emit(wrapOpen, 0)

	var quote string
	depth := 0
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != "" {
			switch {
			case c == '\\' && i+1 < len(expr):
				s.emitByte(c, i)
				i++
				s.emitByte(expr[i], i)
				continue
			case strings.HasPrefix(expr[i:], quote):
				s.copyFrom(quote, i)
				i += len(quote) - 1
				quote = ""
				continue
			}
			s.emitByte(c, i)
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = string(c)
			if strings.HasPrefix(expr[i:], strings.Repeat(quote, 3)) {
				quote = strings.Repeat(quote, 3)
			}
			s.copyFrom(quote, i)
			i += len(quote) - 1
		case strings.HasPrefix(expr[i:], "&&"):
			s.emitKeyword(" and ", i)
			i++
		case strings.HasPrefix(expr[i:], "||"):
			s.emitKeyword(" or ", i)
			i++
		default:
			switch c {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				// a closer with nothing open would close the wrapper
				depth--
				if depth < 0 {
					return nil, s.syntaxErrorAt(i, "unmatched "+string(c))
				}
			}
			s.emitByte(c, i)
		}
	}

	s.emit(wrapClose, len(expr))
	return s, nil
}

func (s *source) emitByte(c byte, at int) {
	s.code = append(s.code, c)
	s.origin = append(s.origin, at)
}

// emit writes synthetic bytes that all map to offset at
func (s *source) emit(str string, at int) {
	for i := 0; i < len(str); i++ {
		s.emitByte(str[i], at)
	}
}

// copyFrom writes bytes taken verbatim from the expression starting at offset at
func (s *source) copyFrom(str string, at int) {
	for i := 0; i < len(str); i++ {
		s.emitByte(str[i], at+i)
	}
}

// emitKeyword writes a keyword replacing a two byte operator at offset at
func (s *source) emitKeyword(kw string, at int) {
	for i := 0; i < len(kw); i++ {
		off := at
		if i >= len(kw)/2 {
			off = at + 1
		}
		s.emitByte(kw[i], off)
	}
}

// offset maps a start byte of code to an offset in text
func (s *source) offset(b uint32) int {
	if int(b) >= len(s.origin) {
		return len(s.text)
	}
	return s.origin[b]
}

// end maps an end byte of code to an offset in text
func (s *source) end(b uint32) int {
	if b == 0 {
		return 0
	}
	if int(b) > len(s.origin) {
		return len(s.text)
	}
	return min(s.origin[b-1]+1, len(s.text))
}

// snippet returns the expression text a node was parsed from
func (s *source) snippet(n *sitter.Node) string {
	start, end := s.offset(n.StartByte()), s.end(n.EndByte())
	if start >= end {
		return ""
	}
	return strings.TrimSpace(s.text[start:end])
}

// content returns the parsed bytes of a node
func (s *source) content(n *sitter.Node) string {
	return n.Content(s.code)
}
