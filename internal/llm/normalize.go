package llm

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const fence = "```"

// TrimFences trims whitespace and removes a leading code-fence line (with or
// without a language tag) and a trailing fence marker.
func TrimFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, fence) {
		rest := s[len(fence):]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		} else {
			rest = strings.TrimLeftFunc(rest, func(r rune) bool {
				return unicode.IsLetter(r) || unicode.IsDigit(r)
			})
		}
		s = rest
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, fence) {
		s = strings.TrimSuffix(s, fence)
	}
	return strings.TrimSpace(s)
}

// ExtractObject slices s from the first '{' to the last '}'. ok is false when
// no such pair exists.
func ExtractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < 0 || start >= end {
		return s, false
	}
	return s[start : end+1], true
}

// ParseObject decodes s as a single JSON object.
func ParseObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	if dec.More() {
		return nil, errors.New("trailing data after json value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Errorf("expected json object, got %T", v)
	}
	return obj, nil
}

// Unwrap returns the nested object when obj is an envelope around the
// expected document: either one of keys holds an object, or obj has a single
// key whose object value satisfies expect.
func Unwrap(obj map[string]any, keys []string, expect func(map[string]any) bool) map[string]any {
	if expect != nil && expect(obj) {
		return obj
	}
	for _, k := range keys {
		if inner, ok := obj[k].(map[string]any); ok && (expect == nil || expect(inner)) {
			return inner
		}
	}
	if len(obj) == 1 && expect != nil {
		for _, v := range obj {
			if inner, ok := v.(map[string]any); ok && expect(inner) {
				return inner
			}
		}
	}
	return obj
}

// Normalizer reduces a raw completion to a JSON object.
type Normalizer struct {
	// EnvelopeKeys are wrapper keys some models add around the answer.
	EnvelopeKeys []string
	// Expect reports whether an object has the expected document shape.
	Expect func(map[string]any) bool
}

// Normalize runs TrimFences, ExtractObject, ParseObject and Unwrap in order.
// When the brace slice does not parse, the whole cleaned text is tried.
func (n Normalizer) Normalize(raw string) (map[string]any, error) {
	cleaned := TrimFences(raw)
	if cleaned == "" {
		return nil, &MalformedResponseError{Snippet: Snippet(raw), Err: errors.New("empty completion")}
	}

	var lastErr error
	if slice, ok := ExtractObject(cleaned); ok {
		obj, err := ParseObject(slice)
		if err == nil {
			return Unwrap(obj, n.EnvelopeKeys, n.Expect), nil
		}
		lastErr = err
		if slice == cleaned {
			return nil, &MalformedResponseError{Snippet: Snippet(raw), Err: lastErr}
		}
	}

	obj, err := ParseObject(cleaned)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return nil, &MalformedResponseError{Snippet: Snippet(raw), Err: lastErr}
	}
	return Unwrap(obj, n.EnvelopeKeys, n.Expect), nil
}

// Decode re-encodes obj into dst, a pointer to a struct with json tags.
func Decode(obj map[string]any, dst any) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "encode object")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode object")
	}
	return nil
}

// HasKeys returns an Expect func matching objects that contain every key.
func HasKeys(keys ...string) func(map[string]any) bool {
	return func(obj map[string]any) bool {
		for _, k := range keys {
			if _, ok := obj[k]; !ok {
				return false
			}
		}
		return true
	}
}
