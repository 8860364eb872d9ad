package app_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godiscover/internal/config/app"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *app.Config
		wantErr bool
	}{
		{
			name: "valid configuration",
			config: &app.Config{
				Environment: "development",
				Name:        "test",
				Version:     "1.0.0",
			},
			wantErr: false,
		},
		{
			name: "missing environment",
			config: &app.Config{
				Name:    "test",
				Version: "1.0.0",
			},
			wantErr: true,
		},
		{
			name: "invalid environment",
			config: &app.Config{
				Environment: "invalid",
				Name:        "test",
				Version:     "1.0.0",
			},
			wantErr: true,
		},
		{
			name: "missing name",
			config: &app.Config{
				Environment: "development",
				Version:     "1.0.0",
			},
			wantErr: true,
		},
	}

	for i := range tests {
		test := &tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			err := test.config.Validate()
			if test.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadFromViper(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   map[string]any
		expected *app.Config
	}{
		{
			name:   "default configuration",
			values: nil,
			expected: &app.Config{
				Name:        app.DefaultName,
				Version:     app.DefaultVersion,
				Environment: app.DefaultEnvironment,
				Debug:       false,
			},
		},
		{
			name: "custom configuration",
			values: map[string]any{
				"app.name":        "custom",
				"app.version":     "2.0.0",
				"app.environment": "development",
				"app.debug":       true,
			},
			expected: &app.Config{
				Name:        "custom",
				Version:     "2.0.0",
				Environment: "development",
				Debug:       true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := viper.New()
			for key, val := range tt.values {
				v.Set(key, val)
			}

			cfg := app.LoadFromViper(v)
			require.Equal(t, tt.expected, cfg)
		})
	}
}
