package table

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	reCurrency = regexp.MustCompile(`[,$]`)
	reParens   = regexp.MustCompile(`[()]`)
	reNumeric  = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)
)

// Float is a coerced decimal cell. It always renders with a fractional part so
// that "500.0" and "500" stay distinguishable in the prompt.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(f), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s), nil
}

// coerceCell converts a string cell into an int64 or Float when it looks like a
// number, including "$1,234" and the accounting "(500)" negative form. Any cell
// that cannot be converted is returned unchanged.
func coerceCell(value any) any {
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return value
	}

	candidate := strings.TrimSpace(reCurrency.ReplaceAllString(s, ""))

	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		candidate = reParens.ReplaceAllString(candidate, "")
		n, ok := parseNumber(candidate)
		if !ok {
			return value
		}
		return negate(n)
	}

	n, ok := parseNumber(candidate)
	if !ok {
		return value
	}
	return n
}

func parseNumber(s string) (any, bool) {
	if !reNumeric.MatchString(s) {
		return nil, false
	}

	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return Float(f), true
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, false
	}
	return i, true
}

func negate(n any) any {
	switch v := n.(type) {
	case int64:
		return -v
	case Float:
		return -v
	}
	return n
}

// headerKey renders a header cell as a record key.
func headerKey(header any) string {
	switch h := header.(type) {
	case string:
		return h
	case nil:
		return "null"
	case float64:
		if h == float64(int64(h)) {
			return strconv.FormatInt(int64(h), 10)
		}
		return strconv.FormatFloat(h, 'f', -1, 64)
	}

	b, err := marshalValue(header)
	if err != nil {
		return ""
	}
	return strings.Trim(string(b), `"`)
}

// marshalValue encodes v without escaping <, > and &, which are common in
// report text and would only add noise to the prompt.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
