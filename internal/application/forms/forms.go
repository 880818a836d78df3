// Package forms validates console form submissions with declarative rule sets.
// Rules run in order and the first failing rule of each field is reported.
package forms

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Values holds raw form input keyed by field name.
type Values map[string]string

// Get returns the trimmed value of name.
func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// Clone copies v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Errors maps each failing field to its first message.
type Errors map[string]string

// OK reports whether no field failed.
func (e Errors) OK() bool { return len(e) == 0 }

// Rule returns a message when value fails, or "".
type Rule func(value string, all Values) string

// Field names one validated input and its rules.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema lists the field rules of one form in display order.
type Schema struct {
	Name   string
	Fields []Field
}

// Validate checks every field.
func (s Schema) Validate(v Values) Errors {
	errs := Errors{}
	for _, f := range s.Fields {
		if msg := f.check(v); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// ValidateField checks a single field, as on blur. ok is false for unknown fields.
func (s Schema) ValidateField(name string, v Values) (msg string, ok bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.check(v), true
		}
	}
	return "", false
}

func (f Field) check(v Values) string {
	value := v.Get(f.Name)
	for _, r := range f.Rules {
		if msg := r(value, v); msg != "" {
			return msg
		}
	}
	return ""
}

// Required fails on blank input.
func Required(msg string) Rule {
	return func(value string, _ Values) string {
		if value == "" {
			return msg
		}
		return ""
	}
}

// Pattern fails when non-blank input does not match re.
func Pattern(re *regexp.Regexp, msg string) Rule {
	return func(value string, _ Values) string {
		if value != "" && !re.MatchString(value) {
			return msg
		}
		return ""
	}
}

// Custom fails when ok returns false for non-blank input.
func Custom(ok func(value string, all Values) bool, msg string) Rule {
	return func(value string, all Values) string {
		if value != "" && !ok(value, all) {
			return msg
		}
		return ""
	}
}

// Amount fails when non-blank input is not a number.
func Amount(msg string) Rule {
	return Custom(func(value string, _ Values) bool {
		_, err := decimal.NewFromString(value)
		return err == nil
	}, msg)
}

// NonNegative fails for amounts below zero.
func NonNegative(msg string) Rule {
	return Custom(func(value string, _ Values) bool {
		d, err := decimal.NewFromString(value)
		return err != nil || !d.IsNegative()
	}, msg)
}

// GreaterThan fails unless the amount exceeds the amount in field other.
// It passes when other is blank or not a number; that field reports its own error.
func GreaterThan(other, msg string) Rule {
	return Custom(func(value string, all Values) bool {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return true
		}
		base, err := decimal.NewFromString(all.Get(other))
		if err != nil {
			return true
		}
		return d.GreaterThan(base)
	}, msg)
}

// SameAs fails unless value equals field other.
func SameAs(other, msg string) Rule {
	return Custom(func(value string, all Values) bool {
		return value == all.Get(other)
	}, msg)
}

func parseAmount(v Values, name string) (decimal.Decimal, error) {
	raw := v.Get(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
