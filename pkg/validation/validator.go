package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	playground "github.com/go-playground/validator/v10"

	"github.com/goliatone/go-feedbackform/pkg/model"
)

// FieldValidator maps a field and its raw value onto an error message. An
// empty message means the value is valid.
type FieldValidator interface {
	Validate(field model.FieldID, value string) string
	ValidateAll(data model.FormData) model.ErrorMap
}

// Option configures a Validator.
type Option func(*config)

type config struct {
	rules []FieldRules
}

// WithRules replaces the default rule table.
func WithRules(rules []FieldRules) Option {
	return func(cfg *config) {
		if rules != nil {
			cfg.rules = rules
		}
	}
}

type compiledRule struct {
	tag     string
	message string
}

type compiledField struct {
	optional bool
	rules    []compiledRule
}

// Validator evaluates a rule table with go-playground/validator. It holds no
// per-call state and is safe for concurrent use once constructed.
type Validator struct {
	engine *playground.Validate
	table  []FieldRules
	fields map[model.FieldID]compiledField
}

var _ FieldValidator = (*Validator)(nil)

// New compiles the rule table, registering one playground tag per pattern.
func New(options ...Option) (*Validator, error) {
	cfg := config{rules: DefaultRules()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	engine := playground.New()
	builtins := map[string]playground.Func{
		notBlankTag:  notBlank,
		minLengthTag: minLength,
		maxLengthTag: maxLength,
	}
	for tag, fn := range builtins {
		if err := engine.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("validation: register %s: %w", tag, err)
		}
	}

	v := &Validator{
		engine: engine,
		table:  cloneRules(cfg.rules),
		fields: make(map[model.FieldID]compiledField, len(cfg.rules)),
	}

	patterns := make(map[string]string)
	for _, fr := range cfg.rules {
		if _, dup := v.fields[fr.Field]; dup {
			return nil, fmt.Errorf("validation: duplicate rules for field %q", fr.Field)
		}
		compiled := compiledField{optional: fr.Optional}
		for _, rule := range fr.Rules {
			if rule.Kind == RulePattern {
				if err := v.registerPattern(patterns, rule); err != nil {
					return nil, err
				}
			}
			tag, err := rule.tag()
			if err != nil {
				return nil, err
			}
			compiled.rules = append(compiled.rules, compiledRule{tag: tag, message: rule.Message})
		}
		v.fields[fr.Field] = compiled
	}

	return v, nil
}

// MustNew is New for static rule tables; it panics on error.
func MustNew(options ...Option) *Validator {
	v, err := New(options...)
	if err != nil {
		panic(err)
	}
	return v
}

// Default returns a validator for the built-in feedback rules.
func Default() *Validator {
	return MustNew()
}

func (v *Validator) registerPattern(seen map[string]string, rule Rule) error {
	if existing, ok := seen[rule.Tag]; ok {
		if existing != rule.Pattern {
			return fmt.Errorf("validation: tag %q bound to two patterns", rule.Tag)
		}
		return nil
	}
	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return fmt.Errorf("validation: compile pattern for %q: %w", rule.Tag, err)
	}
	if err := v.engine.RegisterValidation(rule.Tag, func(fl playground.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("validation: register %q: %w", rule.Tag, err)
	}
	seen[rule.Tag] = rule.Pattern
	return nil
}

// Validate returns the message of the first failing rule for field, or "".
// Unknown fields are always valid.
func (v *Validator) Validate(field model.FieldID, value string) string {
	if v == nil {
		return ""
	}
	compiled, ok := v.fields[field]
	if !ok {
		return ""
	}
	if compiled.optional && value == "" {
		return ""
	}
	for _, rule := range compiled.rules {
		if err := v.engine.Var(value, rule.tag); err != nil {
			return rule.message
		}
	}
	return ""
}

// ValidateAll validates every field of data. Only failing fields appear in
// the result.
func (v *Validator) ValidateAll(data model.FormData) model.ErrorMap {
	errs := make(model.ErrorMap)
	for _, field := range model.Fields() {
		value, _ := data.Get(field)
		if msg := v.Validate(field, value); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// Rules returns a copy of the compiled rule table.
func (v *Validator) Rules() []FieldRules {
	if v == nil {
		return nil
	}
	return cloneRules(v.table)
}

// RulesFor returns the rule list for field.
func (v *Validator) RulesFor(field model.FieldID) (FieldRules, bool) {
	for _, fr := range v.Rules() {
		if fr.Field == field {
			return fr, true
		}
	}
	return FieldRules{}, false
}

func notBlank(fl playground.FieldLevel) bool {
	return strings.TrimFunc(fl.Field().String(), isSpace) != ""
}

// isSpace matches the characters a browser strips when trimming: ASCII
// whitespace, line terminators, Unicode space separators and U+FEFF. U+0085
// is not among them.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Z, r)
}

func minLength(fl playground.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	return err == nil && model.TextLength(fl.Field().String()) >= limit
}

func maxLength(fl playground.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	return err == nil && model.TextLength(fl.Field().String()) <= limit
}

func cloneRules(src []FieldRules) []FieldRules {
	out := make([]FieldRules, len(src))
	for i, fr := range src {
		out[i] = fr
		out[i].Rules = append([]Rule(nil), fr.Rules...)
	}
	return out
}
