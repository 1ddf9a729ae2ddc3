package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Simple", "a@x.com", false},
		{"With Subdomain", "dev@mail.example.co.uk", false},
		{"With Plus Tag", "dev+tag@example.com", false},
		{"Empty", "", true},
		{"No At Sign", "not-an-email", true},
		{"No TLD", "a@x", true},
		{"Spaces", "a b@x.com", true},
		{"Too Long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Single Character", "p", false},
		{"Typical", "password123", false},
		{"At Bcrypt Limit", strings.Repeat("x", 72), false},
		{"Empty", "", true},
		{"Over Bcrypt Limit", strings.Repeat("x", 73), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePostInput(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		wantErr bool
	}{
		{"Valid", "Title", "Content", false},
		{"Empty Title", "", "Content", true},
		{"Empty Content", "Title", "", true},
		{"Whitespace Title", "   ", "Content", true},
		{"Whitespace Content", "Title", "\t\n", true},
		{"Title At Limit", strings.Repeat("t", 255), "Content", false},
		{"Title Over Limit", strings.Repeat("t", 256), "Content", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostInput(tt.title, tt.content)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
