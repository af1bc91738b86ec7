package model

import (
	"errors"
	"strings"
	"testing"
)

func TestContactInput_Normalize(t *testing.T) {
	in := ContactInput{
		Name:    "  Ada Lovelace ",
		Email:   " Ada@Example.COM\n",
		Message: "\thello there  ",
	}

	got := in.Normalize()

	if got.Name != "Ada Lovelace" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("Email = %q", got.Email)
	}
	if got.Message != "hello there" {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestContactInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   ContactInput
		wantErr error
	}{
		{
			name:  "valid",
			input: ContactInput{Name: "A", Email: "a@b.com", Message: "hi"},
		},
		{
			name:    "missing name",
			input:   ContactInput{Email: "a@b.com", Message: "hi"},
			wantErr: ErrMissingFields,
		},
		{
			name:    "missing email",
			input:   ContactInput{Name: "A", Message: "hi"},
			wantErr: ErrMissingFields,
		},
		{
			name:    "missing message",
			input:   ContactInput{Name: "A", Email: "a@b.com"},
			wantErr: ErrMissingFields,
		},
		{
			name:    "email without domain dot",
			input:   ContactInput{Name: "A", Email: "a@b", Message: "hi"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "email with space",
			input:   ContactInput{Name: "A", Email: "a b@c.com", Message: "hi"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "email with two at signs",
			input:   ContactInput{Name: "A", Email: "a@@b.com", Message: "hi"},
			wantErr: ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestContactInput_Validate_WhitespaceOnlyIsMissing(t *testing.T) {
	in := ContactInput{Name: "   ", Email: "a@b.com", Message: "hi"}.Normalize()
	if err := in.Validate(); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
}

func TestContactInput_Validate_Lengths(t *testing.T) {
	tests := []struct {
		name  string
		input ContactInput
		field string
	}{
		{"name", ContactInput{Name: strings.Repeat("n", MaxNameLength+1), Email: "a@b.com", Message: "hi"}, "name"},
		{"email", ContactInput{Name: "A", Email: strings.Repeat("e", MaxEmailLength) + "@b.com", Message: "hi"}, "email"},
		{"message", ContactInput{Name: "A", Email: "a@b.com", Message: strings.Repeat("m", MaxMessageLength+1)}, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			var tooLong *FieldTooLongError
			if !errors.As(err, &tooLong) {
				t.Fatalf("expected FieldTooLongError, got %v", err)
			}
			if tooLong.Field != tt.field {
				t.Errorf("Field = %q, want %q", tooLong.Field, tt.field)
			}
		})
	}
}

func TestContactInput_Validate_MultibyteNameAtLimit(t *testing.T) {
	in := ContactInput{Name: strings.Repeat("é", MaxNameLength), Email: "a@b.com", Message: "hi"}
	if err := in.Validate(); err != nil {
		t.Errorf("expected rune-counted name at limit to pass, got %v", err)
	}
}
