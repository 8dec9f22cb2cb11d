// Package jsonpath reads fields out of worker replies using JSONPath-style
// expressions ($.stats.count, $.items[0]) evaluated with gjson.
package jsonpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when a reply body is not valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON in response body")

// Extract returns the value at each path in fields, keyed like fields.
// Every missing path is reported; the errors are joined.
func Extract(body []byte, fields map[string]string) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}

	result := make(map[string]any, len(fields))
	var errs []error
	for name, path := range fields {
		value := gjson.GetBytes(body, toGJSON(path))
		if !value.Exists() {
			errs = append(errs, fmt.Errorf("field %q not found at %s", name, path))
			continue
		}
		result[name] = value.Value()
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}

// String returns the string at path. ok is false when body is invalid, the
// path is absent, or the value is not a JSON string.
func String(body []byte, path string) (s string, ok bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	v := gjson.GetBytes(body, toGJSON(path))
	if v.Type != gjson.String {
		return "", false
	}
	return v.Str, true
}

// Raw returns the raw JSON text at path, unmodified.
func Raw(body []byte, path string) (raw string, ok bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	v := gjson.GetBytes(body, toGJSON(path))
	if !v.Exists() {
		return "", false
	}
	return v.Raw, true
}

// toGJSON converts JSONPath syntax to a gjson path.
// $.foo.bar -> foo.bar, $.items[0].id -> items.0.id, $.data[*].name -> data.#.name
func toGJSON(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")

	var b strings.Builder
	for {
		open := strings.IndexByte(path, '[')
		if open < 0 {
			break
		}
		end := strings.IndexByte(path[open:], ']')
		if end < 0 {
			break
		}
		b.WriteString(path[:open])
		b.WriteByte('.')
		if idx := path[open+1 : open+end]; idx == "*" {
			b.WriteByte('#')
		} else {
			b.WriteString(idx)
		}
		path = path[open+end+1:]
	}
	b.WriteString(path)
	return b.String()
}
