package model

import "strings"

// FieldID identifies one of the feedback form inputs.
type FieldID string

const (
	FieldName     FieldID = "name"
	FieldEmail    FieldID = "email"
	FieldPhone    FieldID = "phone"
	FieldRating   FieldID = "rating"
	FieldFeedback FieldID = "feedback"
)

// FeedbackMaxLength is the character limit shown next to the feedback counter.
const FeedbackMaxLength = 250

// InputKind is the control a surface should use for a field.
type InputKind string

const (
	InputText     InputKind = "text"
	InputEmail    InputKind = "email"
	InputTel      InputKind = "tel"
	InputRadio    InputKind = "radio"
	InputTextArea InputKind = "textarea"
)

// Fields returns the form inputs in declaration order. Whole-form validation
// and every renderer walk fields in this order.
func Fields() []FieldID {
	return []FieldID{FieldName, FieldEmail, FieldPhone, FieldRating, FieldFeedback}
}

// ParseField maps a raw input name onto a known FieldID.
func ParseField(raw string) (FieldID, bool) {
	id := FieldID(strings.TrimSpace(raw))
	for _, known := range Fields() {
		if id == known {
			return id, true
		}
	}
	return "", false
}

// FormData is the value record behind the form. All fields default to the
// empty string.
type FormData struct {
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Rating   string `json:"rating" yaml:"rating"`
	Feedback string `json:"feedback" yaml:"feedback"`
}

// Get returns the value stored for field.
func (d FormData) Get(field FieldID) (string, bool) {
	switch field {
	case FieldName:
		return d.Name, true
	case FieldEmail:
		return d.Email, true
	case FieldPhone:
		return d.Phone, true
	case FieldRating:
		return d.Rating, true
	case FieldFeedback:
		return d.Feedback, true
	default:
		return "", false
	}
}

// With returns a copy of d with field replaced by value. The receiver is left
// untouched; unknown fields report false and return d unchanged.
func (d FormData) With(field FieldID, value string) (FormData, bool) {
	switch field {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldRating:
		d.Rating = value
	case FieldFeedback:
		d.Feedback = value
	default:
		return d, false
	}
	return d, true
}

// Values flattens the record into a map keyed by field identifier.
func (d FormData) Values() map[string]string {
	out := make(map[string]string, len(Fields()))
	for _, field := range Fields() {
		value, _ := d.Get(field)
		out[string(field)] = value
	}
	return out
}

// FeedbackCharCount is the current length of the feedback text as TextLength
// counts it.
func (d FormData) FeedbackCharCount() int {
	return TextLength(d.Feedback)
}

// TextLength counts s in UTF-16 code units, the length a browser reports for
// an input value. Characters outside the Basic Multilingual Plane, such as
// most emoji, count twice.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
			continue
		}
		n++
	}
	return n
}

// ErrorMap holds the current validation message per field. A missing key or an
// empty message means the field is valid.
type ErrorMap map[FieldID]string

// Get returns the message for field, or "".
func (m ErrorMap) Get(field FieldID) string {
	if m == nil {
		return ""
	}
	return m[field]
}

// Has reports whether field currently carries a message.
func (m ErrorMap) Has(field FieldID) bool {
	return m.Get(field) != ""
}

// Empty reports whether no field carries a message.
func (m ErrorMap) Empty() bool {
	for _, msg := range m {
		if msg != "" {
			return false
		}
	}
	return true
}

// Invalid lists fields with a message in declaration order.
func (m ErrorMap) Invalid() []FieldID {
	var out []FieldID
	for _, field := range Fields() {
		if m.Has(field) {
			out = append(out, field)
		}
	}
	return out
}

// Clone returns an independent copy; nil stays nil.
func (m ErrorMap) Clone() ErrorMap {
	if m == nil {
		return nil
	}
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
