package domain

import (
	"regexp"
	"strings"
)

// IdentifierKind distinguishes phone and email identifiers.
type IdentifierKind string

const (
	IdentifierPhone IdentifierKind = "phone"
	IdentifierEmail IdentifierKind = "email"
)

// Identifier is the tagged "phone or email" union. It is resolved once
// at the HTTP edge instead of threading optional phone/email pairs
// through every layer.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ParseIdentifier resolves a phone/email pair into an Identifier.
// Phone wins when both are supplied, matching the portals' behavior of
// sending exactly one field.
func ParseIdentifier(phone, email string) (Identifier, error) {
	phone = strings.TrimSpace(phone)
	email = strings.ToLower(strings.TrimSpace(email))

	switch {
	case phone != "":
		if !phonePattern.MatchString(phone) {
			return Identifier{}, ErrNoIdentifier
		}
		return Identifier{Kind: IdentifierPhone, Value: phone}, nil
	case email != "":
		if !emailPattern.MatchString(email) {
			return Identifier{}, ErrNoIdentifier
		}
		return Identifier{Kind: IdentifierEmail, Value: email}, nil
	default:
		return Identifier{}, ErrNoIdentifier
	}
}

// IsPhone reports whether the identifier is a phone number.
func (i Identifier) IsPhone() bool { return i.Kind == IdentifierPhone }

// IsEmail reports whether the identifier is an email address.
func (i Identifier) IsEmail() bool { return i.Kind == IdentifierEmail }

func (i Identifier) String() string { return string(i.Kind) + ":" + i.Value }
