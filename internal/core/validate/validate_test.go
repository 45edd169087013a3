package validate

import (
	"testing"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid value", "Ada", false},
		{"valid with spaces", "Ada Lovelace", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Required("name", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Required(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"email", "a@b.com", false},
		{"username", "ada", false},
		{"empty", "", true},
		{"broken email", "a@", true},
		{"display name form", "Ada <a@b.com>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Identifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Identifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNewPassword(t *testing.T) {
	if err := NewPassword("abc"); err == nil {
		t.Error("expected error for short password")
	}
	if err := NewPassword("abcdef"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Password(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestPrice(t *testing.T) {
	if err := Price(-0.01); err == nil {
		t.Error("expected error for negative price")
	}
	if err := Price(0); err != nil {
		t.Errorf("unexpected error for zero price: %v", err)
	}
}
