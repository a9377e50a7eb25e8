// Package jsonutil decodes loosely typed request input (JSON bodies, path
// parameters, multipart form fields) into typed Go values.
package jsonutil

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

// Object is a decoded JSON object whose values are still raw.
type Object map[string]json.RawMessage

// ParseObject decodes body as a JSON object. An empty body is an empty object.
func ParseObject(body []byte) (Object, error) {
	obj := Object{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return obj, nil
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("body must be a JSON object: %w", err)
	}
	return obj, nil
}

// FromValues turns form or query values into an Object. Single values become
// JSON strings, repeated keys become arrays of strings.
func FromValues(values url.Values) Object {
	obj := make(Object, len(values))
	for key, vals := range values {
		var raw []byte
		if len(vals) == 1 {
			raw, _ = json.Marshal(vals[0])
		} else {
			raw, _ = json.Marshal(vals)
		}
		obj[key] = raw
	}
	return obj
}

// String wraps s as a raw JSON string.
func String(s string) json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}

// DecodeLenient decodes raw into dst. When dst is not a string and raw is a
// JSON string, the string content is decoded instead, so "4.5" fills a
// float64 and "[1,2]" fills a []uint. Missing, null and blank input leave
// dst untouched.
func DecodeLenient(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	err := json.Unmarshal(raw, dst)
	if err == nil {
		return nil
	}

	var s string
	if json.Unmarshal(raw, &s) != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if json.Unmarshal([]byte(s), dst) != nil {
		return err
	}
	return nil
}

// DecodeFields fills the exported fields of the struct pointed to by dst from
// obj, matching on the json tag name (or the field name when untagged).
func DecodeFields(obj Object, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("jsonutil: DecodeFields needs a struct pointer, got %T", dst)
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := FieldName(field)
		if name == "-" {
			continue
		}
		raw, ok := obj[name]
		if !ok {
			continue
		}
		if err := DecodeLenient(raw, v.Field(i).Addr().Interface()); err != nil {
			return &FieldError{Field: name, Err: err}
		}
	}
	return nil
}

// FieldName returns the json name of a struct field.
func FieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		return f.Name
	}
	return name
}

// FieldError reports which input field failed to decode.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s has an invalid value", e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
