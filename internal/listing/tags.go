package listing

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// NormalizeTags coerces a raw tags value into a list of strings.
//
// A list is used as-is (non-string elements and duplicates dropped). A string
// is decoded as JSON and must hold a list; otherwise it is logged and coerced
// to an empty list. Any other shape yields an empty list. Never returns nil.
// logAttrs are added to the warning, e.g. the listing id.
func NormalizeTags(v any, logAttrs ...any) []string {
	tags, err := parseStringList(v)
	if err != nil {
		attrs := append([]any{"raw", v, "error", err}, logAttrs...)
		slog.Warn("discarding malformed tags", attrs...)
	}
	return tags
}

// parseStringList does the work for NormalizeTags. On error the returned
// list is empty, not nil.
func parseStringList(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
		return uniqueStrings(items), nil
	case []any:
		return uniqueStrings(x), nil
	case string:
		var decoded any
		if err := json.Unmarshal([]byte(x), &decoded); err != nil {
			return []string{}, fmt.Errorf("decoding %q: %w", x, err)
		}
		list, ok := decoded.([]any)
		if !ok {
			return []string{}, fmt.Errorf("decoded %q is %T, not a list", x, decoded)
		}
		return uniqueStrings(list), nil
	case json.RawMessage:
		return parseRawJSON(x)
	case []byte:
		return parseRawJSON(x)
	default:
		return []string{}, nil
	}
}

// parseRawJSON handles values straight off the wire, where a list may arrive
// as a JSON array or as a JSON string holding an encoded array.
func parseRawJSON(raw []byte) ([]string, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return []string{}, fmt.Errorf("decoding raw value: %w", err)
	}
	return parseStringList(decoded)
}

func uniqueStrings(items []any) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
