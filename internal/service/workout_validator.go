package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "workouttracker/internal/errors"
)

// Workout payload field names.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldDuration    = "duration"
	FieldDate        = "date"
)

// RequiredWorkoutFields must all be supplied on create and full update.
var RequiredWorkoutFields = []string{FieldName, FieldDuration, FieldDate}

var allowedWorkoutFields = map[string]bool{
	FieldName:        true,
	FieldDescription: true,
	FieldDuration:    true,
	FieldDate:        true,
}

// dateLayouts lists the accepted "date" formats, tried in order.
// Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// datePrecision matches the coarsest supported store (MySQL datetime(3)), so a
// created workout reads back with the same date it was returned with.
const datePrecision = time.Millisecond

// WorkoutPayload is a decoded JSON object that remembers the order its keys appeared in.
type WorkoutPayload struct {
	keys   []string
	values map[string]json.RawMessage
}

// ParseWorkoutPayload decodes a request body. An empty body is an empty object.
func ParseWorkoutPayload(body []byte) (*WorkoutPayload, error) {
	p := &WorkoutPayload{values: map[string]json.RawMessage{}}
	if len(bytes.TrimSpace(body)) == 0 {
		return p, nil
	}

	invalid := apperrors.NewValidationError("invalid request body")
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return nil, invalid
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, invalid
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, invalid
		}
		key, ok := tok.(string)
		if !ok {
			return nil, invalid
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, invalid
		}
		if _, seen := p.values[key]; !seen {
			p.keys = append(p.keys, key)
		}
		p.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, invalid
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalid
	}
	return p, nil
}

// Keys returns the payload keys in body order.
func (p *WorkoutPayload) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Has reports whether field was supplied with a non-null value.
func (p *WorkoutPayload) Has(field string) bool {
	raw, ok := p.values[field]
	return ok && !isNull(raw)
}

func (p *WorkoutPayload) present(field string) (json.RawMessage, bool) {
	raw, ok := p.values[field]
	return raw, ok
}

// WorkoutInput holds the validated, typed fields of a payload. Nil pointers
// mean "not supplied"; DescriptionSet distinguishes an explicit null description.
type WorkoutInput struct {
	Name           *string
	Description    *string
	DescriptionSet bool
	Duration       *float64
	Date           *time.Time
}

// Changes returns the column updates described by the input.
func (in *WorkoutInput) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if in.Name != nil {
		changes[FieldName] = *in.Name
	}
	if in.DescriptionSet {
		changes[FieldDescription] = in.Description
	}
	if in.Duration != nil {
		changes[FieldDuration] = *in.Duration
	}
	if in.Date != nil {
		changes[FieldDate] = *in.Date
	}
	return changes
}

// WorkoutValidator validates workout payloads. It performs no I/O.
type WorkoutValidator struct{}

// NewWorkoutValidator creates a new workout validator.
func NewWorkoutValidator() *WorkoutValidator {
	return &WorkoutValidator{}
}

// RequireFields reports every field in fields that is absent or null, in the given order.
func (v *WorkoutValidator) RequireFields(p *WorkoutPayload, fields ...string) error {
	var missing []string
	for _, field := range fields {
		if !p.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("the following fields are required: " + strings.Join(missing, ", "))
	}
	return nil
}

// CheckShape rejects unknown fields, then checks each supplied field in the
// order name, description, duration, date. Only the first violation is reported.
func (v *WorkoutValidator) CheckShape(p *WorkoutPayload) (*WorkoutInput, error) {
	var invalid []string
	for _, key := range p.keys {
		if !allowedWorkoutFields[key] {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		return nil, apperrors.NewValidationError("the following fields are not allowed: " + strings.Join(invalid, ", "))
	}

	in := &WorkoutInput{}

	if raw, ok := p.present(FieldName); ok {
		name, isString := asString(raw)
		if !isString || strings.TrimSpace(name) == "" {
			return nil, fieldError(FieldName, "must be a non-empty string")
		}
		in.Name = &name
	}

	if raw, ok := p.present(FieldDescription); ok {
		in.DescriptionSet = true
		if !isNull(raw) {
			description, isString := asString(raw)
			if !isString {
				return nil, fieldError(FieldDescription, "must be a string")
			}
			in.Description = &description
		}
	}

	if raw, ok := p.present(FieldDuration); ok {
		duration, valid := asPositiveNumber(raw)
		if !valid {
			return nil, fieldError(FieldDuration, "must be a number greater than 0")
		}
		in.Duration = &duration
	}

	if raw, ok := p.present(FieldDate); ok {
		date, valid := asDate(raw)
		if !valid {
			return nil, fieldError(FieldDate, "must be a valid date")
		}
		in.Date = &date
	}

	return in, nil
}

func fieldError(field, rule string) error {
	return apperrors.NewValidationError(fmt.Sprintf("the %q field %s.", field, rule))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func asString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// asPositiveNumber accepts JSON numbers only. The sign is checked on the exact
// decimal, then the value must also survive conversion to a finite float.
func asPositiveNumber(raw json.RawMessage) (float64, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return 0, false
	}
	num, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	d, err := decimal.NewFromString(num.String())
	if err != nil || !d.IsPositive() {
		return 0, false
	}
	f, _ := d.Float64()
	if f <= 0 || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asDate(raw json.RawMessage) (time.Time, bool) {
	s, ok := asString(raw)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(datePrecision), true
		}
	}
	return time.Time{}, false
}
