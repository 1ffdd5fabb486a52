package util

// IntArg coerces a decoded JSON argument to int. JSON numbers arrive as
// float64, function call IDs occasionally as native ints.
func IntArg(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

// StringSliceArg coerces a decoded JSON argument to a string slice, dropping
// non-string elements.
func StringSliceArg(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
