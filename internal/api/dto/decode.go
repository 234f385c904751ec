package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

// DateOnlyLayout is the accepted short form for dates.
const DateOnlyLayout = "2006-01-02"

// Object is a JSON request body kept as raw members so that only whitelisted
// keys are ever read.
type Object map[string]json.RawMessage

// ParseObject decodes body as a JSON object. An empty body is an empty object.
func ParseObject(body []byte) (Object, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Object{}, nil
	}
	var obj Object
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, apperrors.NewBadRequest("request body must be a JSON object")
	}
	if obj == nil {
		obj = Object{}
	}
	return obj, nil
}

// Has reports whether key is present, even when null.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

func (o Object) isNull(key string) bool {
	return bytes.Equal(bytes.TrimSpace(o[key]), []byte("null"))
}

// fieldReader accumulates type errors while reading members.
type fieldReader struct {
	obj  Object
	errs []string
}

// str returns the member as a string, nil when absent. With nullable set an
// explicit null reads as "", otherwise it is a type error.
func (r *fieldReader) str(key string, nullable bool) *string {
	if !r.obj.Has(key) {
		return nil
	}
	if r.obj.isNull(key) {
		if !nullable {
			r.errs = append(r.errs, fmt.Sprintf("%s must be a string", key))
			return nil
		}
		empty := ""
		return &empty
	}
	var s string
	if err := json.Unmarshal(r.obj[key], &s); err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s must be a string", key))
		return nil
	}
	return &s
}

func (r *fieldReader) list(key string) *[]string {
	if !r.obj.Has(key) {
		return nil
	}
	out := []string{}
	if r.obj.isNull(key) {
		return &out
	}
	if err := json.Unmarshal(r.obj[key], &out); err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s must be a list of strings", key))
		return nil
	}
	return &out
}

// object returns the member as a generic JSON object, nil when absent or null.
func (r *fieldReader) object(key string) map[string]any {
	if !r.obj.Has(key) || r.obj.isNull(key) {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(r.obj[key], &out); err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s must be an object", key))
		return nil
	}
	return out
}

// date returns (value, present). Null and "" clear the date.
func (r *fieldReader) date(key string) (*time.Time, bool) {
	if !r.obj.Has(key) {
		return nil, false
	}
	if r.obj.isNull(key) {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(r.obj[key], &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, true
		}
		if t, ok := ParseTime(s); ok {
			return &t, true
		}
	}
	r.errs = append(r.errs, fmt.Sprintf("%s must be an RFC3339 timestamp or YYYY-MM-DD date", key))
	return nil, false
}

func (r *fieldReader) err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return apperrors.NewValidationError(r.errs...)
}

// ParseTime accepts RFC3339 or a bare date at UTC midnight.
func ParseTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(DateOnlyLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
