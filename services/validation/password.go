package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy judges password strength. The policy is pluggable so the
// signup flow is not hard-wired to one rule set; attrs carries the user
// attributes (name, email, username) a password must not resemble.
type PasswordPolicy interface {
	Validate(password string, attrs []string) Errors
}

// DefaultPasswordPolicy mirrors the usual stack of strength checks:
// minimum length, not entirely numeric, not a common password, not too
// similar to the user's own attributes.
type DefaultPasswordPolicy struct {
	MinLength int
}

// A short list of the most common leaked passwords. Checked lower-cased.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"letmein123":  {},
	"iloveyou":    {},
	"admin123":    {},
	"welcome1":    {},
	"sunshine":    {},
	"football":    {},
	"monkey123":   {},
	"dragon123":   {},
}

func (p DefaultPasswordPolicy) minLength() int {
	if p.MinLength > 0 {
		return p.MinLength
	}
	return 8
}

func (p DefaultPasswordPolicy) Validate(password string, attrs []string) Errors {
	var msgs Errors

	if len(password) < p.minLength() {
		msgs = append(msgs, fmt.Sprintf("This password is too short. It must contain at least %d characters.", p.minLength()))
	}

	if password != "" && isEntirelyNumeric(password) {
		msgs = append(msgs, "This password is entirely numeric.")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		msgs = append(msgs, "This password is too common.")
	}

	lowered := strings.ToLower(password)
	for _, attr := range attrs {
		for _, part := range strings.FieldsFunc(strings.ToLower(attr), func(r rune) bool {
			return r == ' ' || r == '@' || r == '.' || r == '_' || r == '-'
		}) {
			if len(part) >= 4 && strings.Contains(lowered, part) {
				msgs = append(msgs, "The password is too similar to your other personal information.")
				return msgs
			}
		}
	}

	return msgs
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
