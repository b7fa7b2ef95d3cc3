package nanoreport

import "strings"

// plainText concatenates every text leaf below v
func plainText(v interface{}) string {
	var b strings.Builder
	collectText(v, &b)
	return b.String()
}

func collectText(v interface{}, b *strings.Builder) {
	switch t := v.(type) {
	case map[string]interface{}:
		if s, ok := t["text"].(string); ok {
			b.WriteString(s)
		}
		collectText(t["children"], b)
	case []interface{}:
		for _, item := range t {
			collectText(item, b)
		}
	}
}

// textChildren is the children list of a block holding plain text
func textChildren(s string) []interface{} {
	return []interface{}{map[string]interface{}{"text": s}}
}

// emptyChildren is the children list of blocks without text content
func emptyChildren() []interface{} {
	return textChildren("")
}

func paragraphSpec(s string) map[string]interface{} {
	return map[string]interface{}{"type": "paragraph", "children": textChildren(s)}
}
