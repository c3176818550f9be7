package validation

import (
	"fmt"

	"github.com/goliatone/go-feedbackform/pkg/model"
)

// RuleKind names a canonical constraint. Kinds map onto go-playground tags
// for evaluation and onto OpenAPI keywords for schema export.
type RuleKind string

const (
	// RuleRequired fails when the value is empty after trimming whitespace.
	RuleRequired RuleKind = "required"
	// RulePresent fails only when the value is the empty string. Used for
	// selections where whitespace is never a legal value.
	RulePresent RuleKind = "present"
	// RulePattern fails when the value does not match Pattern. Tag is the
	// name the expression is registered under.
	RulePattern RuleKind = "pattern"
	// RuleMinLength and RuleMaxLength count UTF-16 code units, the unit a
	// browser reports as the length of an input value.
	RuleMinLength RuleKind = "minLength"
	RuleMaxLength RuleKind = "maxLength"
)

// Rule is a single constraint with the message reported when it fails.
type Rule struct {
	Kind    RuleKind `json:"kind" yaml:"kind"`
	Tag     string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Limit   int      `json:"limit,omitempty" yaml:"limit,omitempty"`
	Message string   `json:"message" yaml:"message"`

	// SchemaPattern is the ECMA-262 spelling of Pattern used in exported
	// schemas. Empty means Pattern is used as is.
	SchemaPattern string `json:"schemaPattern,omitempty" yaml:"schemaPattern,omitempty"`
}

// FieldRules lists the rules for one field in evaluation order. Optional
// fields skip every rule while empty.
type FieldRules struct {
	Field    model.FieldID `json:"field" yaml:"field"`
	Optional bool          `json:"optional,omitempty" yaml:"optional,omitempty"`
	Rules    []Rule        `json:"rules" yaml:"rules"`
}

// Required reports whether the field must carry a value.
func (f FieldRules) Required() bool {
	if f.Optional {
		return false
	}
	for _, rule := range f.Rules {
		if rule.Kind == RuleRequired || rule.Kind == RulePresent {
			return true
		}
	}
	return false
}

const (
	notBlankTag  = "notblank"
	minLengthTag = "utf16_min"
	maxLengthTag = "utf16_max"

	PersonNameTag   = "person_name"
	EmailAddressTag = "email_address"
	PhoneDigitsTag  = "phone_digits"

	// whitespaceClass is what `\s` matches in a browser: RE2's \s misses the
	// vertical tab, the Unicode space separators and U+FEFF.
	whitespaceClass = `\s\v\p{Z}\x{FEFF}`

	PersonNamePattern   = `^[a-zA-Z` + whitespaceClass + `]+$`
	EmailAddressPattern = `^[^` + whitespaceClass + `@]+@[^` + whitespaceClass + `@]+\.[^` + whitespaceClass + `@]+$`
	PhoneDigitsPattern  = `^\d{10}$`

	PersonNameSchemaPattern   = `^[a-zA-Z\s]+$`
	EmailAddressSchemaPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	FeedbackMinLength = 20
)

// DefaultRules returns the feedback form rule table in field order.
func DefaultRules() []FieldRules {
	return []FieldRules{
		{
			Field: model.FieldName,
			Rules: []Rule{
				{Kind: RuleRequired, Message: "Name is required"},
				{Kind: RulePattern, Tag: PersonNameTag, Pattern: PersonNamePattern, SchemaPattern: PersonNameSchemaPattern, Message: "Name should only contain alphabets and spaces"},
			},
		},
		{
			Field: model.FieldEmail,
			Rules: []Rule{
				{Kind: RuleRequired, Message: "Email is required"},
				{Kind: RulePattern, Tag: EmailAddressTag, Pattern: EmailAddressPattern, SchemaPattern: EmailAddressSchemaPattern, Message: "Please enter a valid email address"},
			},
		},
		{
			Field:    model.FieldPhone,
			Optional: true,
			Rules: []Rule{
				{Kind: RulePattern, Tag: PhoneDigitsTag, Pattern: PhoneDigitsPattern, Message: "Phone number must be 10 digits"},
			},
		},
		{
			Field: model.FieldRating,
			Rules: []Rule{
				{Kind: RulePresent, Message: "Please select a rating"},
			},
		},
		{
			Field: model.FieldFeedback,
			Rules: []Rule{
				{Kind: RuleRequired, Message: "Feedback is required"},
				{Kind: RuleMinLength, Limit: FeedbackMinLength, Message: "Feedback must be at least 20 characters"},
				{Kind: RuleMaxLength, Limit: model.FeedbackMaxLength, Message: "Feedback cannot exceed 250 characters"},
			},
		},
	}
}

// tag renders the go-playground tag evaluating r.
func (r Rule) tag() (string, error) {
	switch r.Kind {
	case RuleRequired:
		return notBlankTag, nil
	case RulePresent:
		return "required", nil
	case RulePattern:
		if r.Tag == "" {
			return "", fmt.Errorf("validation: pattern rule %q has no tag", r.Pattern)
		}
		return r.Tag, nil
	case RuleMinLength:
		return fmt.Sprintf("%s=%d", minLengthTag, r.Limit), nil
	case RuleMaxLength:
		return fmt.Sprintf("%s=%d", maxLengthTag, r.Limit), nil
	default:
		return "", fmt.Errorf("validation: unknown rule kind %q", r.Kind)
	}
}
