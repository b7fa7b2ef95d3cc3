package filter

import (
	"errors"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// literal evaluates a literal node. Numbers become float64, the JSON number
// model used throughout the document tree.
func (c *compiler) literal(n *sitter.Node) (interface{}, error) {
	n = unwrap(n)
	text := c.src.content(n)
	switch n.Type() {
	case "string":
		return c.stringLiteral(n)
	case "integer":
		return c.integerLiteral(n, text)
	case "float":
		return c.floatLiteral(n, text)
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "none":
		return nil, nil
	case "identifier":
		switch text {
		case "null":
			return nil, nil
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, c.unsupported(n, "name on the right-hand side")
	case "unary_operator":
		op := n.ChildByFieldName("operator")
		arg := unwrap(n.ChildByFieldName("argument"))
		if op == nil || arg == nil || (arg.Type() != "integer" && arg.Type() != "float") {
			return nil, c.unsupported(n, "unary operator")
		}
		v, err := c.literal(arg)
		if err != nil {
			return nil, err
		}
		f := v.(float64)
		switch op.Type() {
		case "-":
			return -f, nil
		case "+":
			return f, nil
		}
		return nil, c.unsupported(n, "unary operator")
	case "list", "tuple":
		items := namedChildren(n)
		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			inner := unwrap(item)
			if inner.Type() == "list" || inner.Type() == "tuple" {
				return nil, c.unsupported(item, "nested list")
			}
			v, err := c.literal(inner)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return nil, c.unsupported(n, describe(n.Type()))
}

func (c *compiler) stringLiteral(n *sitter.Node) (interface{}, error) {
	text := c.src.content(n)
	quoteAt := strings.IndexAny(text, `'"`)
	if quoteAt < 0 {
		return nil, c.unsupported(n, "string literal")
	}
	prefix := strings.ToLower(text[:quoteAt])
	if strings.ContainsAny(prefix, "fb") {
		return nil, c.unsupported(n, "formatted or bytes string")
	}
	body := text[quoteAt:]
	quote := body[:1]
	if strings.HasPrefix(body, strings.Repeat(quote, 3)) && len(body) >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	if len(body) < 2*len(quote) {
		return nil, c.unsupported(n, "string literal")
	}
	body = body[len(quote) : len(body)-len(quote)]
	if strings.Contains(prefix, "r") {
		return body, nil
	}
	out, err := unescape(body)
	if err != nil {
		return nil, c.unsupported(n, err.Error())
	}
	return out, nil
}

func (c *compiler) integerLiteral(n *sitter.Node, text string) (interface{}, error) {
	clean := strings.ReplaceAll(text, "_", "")
	if strings.HasSuffix(clean, "j") || strings.HasSuffix(clean, "J") {
		return nil, c.unsupported(n, "complex number")
	}
	if len(clean) > 1 && clean[0] == '0' && strings.Trim(clean, "0") != "" && !strings.ContainsAny(clean[1:2], "xXoObB") {
		return nil, c.unsupported(n, "integer with leading zeros")
	}
	i, err := strconv.ParseInt(clean, 0, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(clean, 64)
		if ferr != nil {
			return nil, c.unsupported(n, "integer literal")
		}
		return f, nil
	}
	return float64(i), nil
}

func (c *compiler) floatLiteral(n *sitter.Node, text string) (interface{}, error) {
	clean := strings.ReplaceAll(text, "_", "")
	if strings.HasSuffix(clean, "j") || strings.HasSuffix(clean, "J") {
		return nil, c.unsupported(n, "complex number")
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil, c.unsupported(n, "float literal")
	}
	return f, nil
}

var simpleEscapes = map[byte]string{
	'\\': `\`,
	'\'': `'`,
	'"':  `"`,
	'n':  "\n",
	't':  "\t",
	'r':  "\r",
	'a':  "\a",
	'b':  "\b",
	'f':  "\f",
	'v':  "\v",
	'\n': "",
}

var hexWidths = map[byte]int{'x': 2, 'u': 4, 'U': 8}

// errNamedEscape marks a \N{...} escape, which needs the Unicode name table
var errNamedEscape = errors.New("named unicode escape")

// unescape resolves backslash escapes of a non-raw string body
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		next := s[i+1]
		if rep, ok := simpleEscapes[next]; ok {
			b.WriteString(rep)
			i++
			continue
		}

		// octal: one to three digits
		if isOctal(next) {
			end := i + 2
			for end < len(s) && end < i+4 && isOctal(s[end]) {
				end++
			}
			r, _ := strconv.ParseUint(s[i+1:end], 8, 32)
			b.WriteRune(rune(r))
			i = end - 1
			continue
		}

		if next == 'N' && i+2 < len(s) && s[i+2] == '{' {
			return "", errNamedEscape
		}

		width := hexWidths[next]
		if width > 0 && i+2+width <= len(s) {
			if r, err := strconv.ParseUint(s[i+2:i+2+width], 16, 32); err == nil {
				b.WriteRune(rune(r))
				i += 1 + width
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String(), nil
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
