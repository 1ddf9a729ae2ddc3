package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "Valid Development Config",
			config:  Config{Port: "8080", JWTSecret: devJWTSecret, Env: "development"},
			wantErr: false,
		},
		{
			name:    "Valid Production Config",
			config:  Config{Port: "8080", JWTSecret: "a-real-secret", Env: "production"},
			wantErr: false,
		},
		{
			name:    "Missing Port",
			config:  Config{JWTSecret: "a-real-secret"},
			wantErr: true,
		},
		{
			name:    "Missing JWT Secret",
			config:  Config{Port: "8080"},
			wantErr: true,
		},
		{
			name:    "Dev Secret Rejected In Production",
			config:  Config{Port: "8080", JWTSecret: devJWTSecret, Env: "production"},
			wantErr: true,
		},
		{
			name:    "Dev Secret Rejected For Prod Alias",
			config:  Config{Port: "8080", JWTSecret: devJWTSecret, Env: "prod"},
			wantErr: true,
		},
		{
			name:    "Dev Secret Allowed Outside Production",
			config:  Config{Port: "8080", JWTSecret: devJWTSecret, Env: "test"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
