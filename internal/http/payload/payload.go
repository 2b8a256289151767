// Package payload decodes loosely typed JSON request bodies where fields
// may be absent, null, or of an unexpected type.
package payload

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/expensely/internal/apperr"
)

const maxBodyBytes = 1 << 20

var ErrJSONRequired = apperr.New(apperr.InvalidArgument, "JSON data required")

// Object is a decoded JSON object keyed by field name.
type Object map[string]json.RawMessage

// Decode reads a non-empty JSON object from the request body. A missing,
// malformed, non-object or empty body yields ErrJSONRequired.
func Decode(w http.ResponseWriter, r *http.Request) (Object, error) {
	if r.Body == nil {
		return nil, ErrJSONRequired
	}

	var obj Object
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&obj); err != nil {
		return nil, ErrJSONRequired
	}

	if len(obj) == 0 {
		return nil, ErrJSONRequired
	}

	return obj, nil
}

// Has reports whether key is present with a non-null value.
func (o Object) Has(key string) bool {
	raw, ok := o[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// String returns the string value of key. ok is false when the field is
// absent, null or not a string.
func (o Object) String(key string) (string, bool) {
	if !o.Has(key) {
		return "", false
	}

	var s string
	if err := json.Unmarshal(o[key], &s); err != nil {
		return "", false
	}

	return s, true
}

// Float accepts a JSON number or a string holding one. ok is false for
// anything else, including booleans.
func (o Object) Float(key string) (float64, bool) {
	if !o.Has(key) {
		return 0, false
	}

	raw := o[key]

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}

	return f, true
}
