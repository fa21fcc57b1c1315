package domain

import (
	"strings"

	dErrors "recordhub/pkg/domain-errors"
)

// EmailAddress is a syntactically plausible email in local@domain.tld shape.
// The check is a shape check, not deliverability: exactly one @, non-empty
// local part, a dot in the domain, no whitespace.
type EmailAddress string

// ParseEmailAddress validates and canonicalizes (trims, lowercases the domain)
// an email address from external input.
//
// Errors: CodeInvalidInput when the shape is wrong.
func ParseEmailAddress(s string) (EmailAddress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "email cannot be empty")
	}
	if strings.ContainsAny(s, " \t\n") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "email cannot contain whitespace")
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') {
		return "", dErrors.New(dErrors.CodeInvalidInput, "email must have exactly one @ with a local part")
	}
	local, dom := s[:at], s[at+1:]
	dot := strings.LastIndexByte(dom, '.')
	if dot <= 0 || dot == len(dom)-1 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "email domain must contain a dot-separated TLD")
	}
	return EmailAddress(local + "@" + strings.ToLower(dom)), nil
}

func (e EmailAddress) String() string {
	return string(e)
}
