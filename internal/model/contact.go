// Package model defines domain entities for the application.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits for contact submissions.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MaxMessageLength = 5000
)

// Validation errors.
var (
	ErrMissingFields = errors.New("all fields are required: name, email, and message")
	ErrInvalidEmail  = errors.New("please provide a valid email address")
)

// FieldTooLongError reports a field that exceeds its length limit.
type FieldTooLongError struct {
	Field string
	Max   int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("%s must be at most %d characters", e.Field, e.Max)
}

// emailPattern is a syntactic check only: something@domain.tld, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactMessage is a message submitted through the contact form.
// Records are immutable once stored.
type ContactMessage struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// ContactInput holds the raw form fields before normalization.
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// Normalize trims every field and lower-cases the email.
func (in ContactInput) Normalize() ContactInput {
	return ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Message: strings.TrimSpace(in.Message),
	}
}

// Validate checks a normalized input.
// Missing fields are reported before format and length problems.
func (in ContactInput) Validate() error {
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return ErrMissingFields
	}

	if utf8.RuneCountInString(in.Name) > MaxNameLength {
		return &FieldTooLongError{Field: "name", Max: MaxNameLength}
	}
	if len(in.Email) > MaxEmailLength {
		return &FieldTooLongError{Field: "email", Max: MaxEmailLength}
	}
	if utf8.RuneCountInString(in.Message) > MaxMessageLength {
		return &FieldTooLongError{Field: "message", Max: MaxMessageLength}
	}

	if !emailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// ContactListOptions carries pagination for listing contact messages.
type ContactListOptions struct {
	// Limit caps the number of messages returned. Zero means no cap.
	Limit int
}
