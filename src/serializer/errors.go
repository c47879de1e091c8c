package serializer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Error kinds. Every *ValidationError unwraps to exactly one of them.
var (
	ErrParse  = errors.New("invalid raw balance")
	ErrLookup = errors.New("token decimals lookup failed")
	ErrSchema = errors.New("schema violation")
)

// ValidationError reports the field path where validation stopped, the
// offending value and the underlying cause.
type ValidationError struct {
	Kind  error
	Path  string
	Value interface{}
	Err   error
}

func (e *ValidationError) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Value != nil {
		msg += " (got " + describe(e.Value) + ")"
	}
	return msg
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func schemaError(path string, value interface{}, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: ErrSchema, Path: path, Value: value, Err: fmt.Errorf(format, args...)}
}

func describe(v interface{}) string {
	switch val := v.(type) {
	case string:
		if len(val) > 64 {
			val = val[:64] + "..."
		}
		return strconv.Quote(val)
	case json.Number:
		return val.String()
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func fieldPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

func keyPath(parent, key string) string {
	return fmt.Sprintf("%s[%q]", parent, key)
}
