package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize maps the webhook's loosely shaped response body to display text.
// Priority: first element of a result array (link_docs, then response_text,
// then the pretty-printed element), a top-level data field, a plain string,
// and finally the pretty-printed value. A body that is not valid JSON falls
// back to its raw text rather than failing the operation. Plain strings pass
// through unchanged, so re-normalizing an already normalized value is a no-op.
func Normalize(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return strings.TrimSpace(string(raw))
	}

	switch val := v.(type) {
	case []any:
		if len(val) > 0 {
			if first, ok := val[0].(map[string]any); ok {
				if link, ok := first["link_docs"].(string); ok && link != "" {
					return strings.TrimSpace(link)
				}
				if text, ok := first["response_text"].(string); ok && text != "" {
					return text
				}
				return prettyJSON(first)
			}
		}
	case map[string]any:
		if data, ok := val["data"]; ok {
			if s, ok := data.(string); ok {
				return s
			}
			return prettyJSON(data)
		}
	case string:
		return val
	}

	return prettyJSON(v)
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
