package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		setEnv       bool
		want         string
	}{
		{
			name:         "environment variable set",
			key:          "TEST_KEY_1",
			defaultValue: "default",
			envValue:     "custom",
			setEnv:       true,
			want:         "custom",
		},
		{
			name:         "environment variable not set",
			key:          "TEST_KEY_2",
			defaultValue: "default",
			envValue:     "",
			setEnv:       false,
			want:         "default",
		},
		{
			name:         "empty environment variable",
			key:          "TEST_KEY_3",
			defaultValue: "default",
			envValue:     "",
			setEnv:       true,
			want:         "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvOrDefault(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	defer os.Unsetenv("STORAGE_ENDPOINT")

	if err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if AppConfig.Port != 8080 {
		t.Errorf("Port = %v, want 8080", AppConfig.Port)
	}
	if AppConfig.RequestCollection != "declaration_requests" {
		t.Errorf("RequestCollection = %v, want declaration_requests", AppConfig.RequestCollection)
	}
	if AppConfig.SignedURLExpiry != 24*time.Hour {
		t.Errorf("SignedURLExpiry = %v, want 24h", AppConfig.SignedURLExpiry)
	}
	if AppConfig.RecentGeneratedWindow != 168*time.Hour {
		t.Errorf("RecentGeneratedWindow = %v, want 168h", AppConfig.RecentGeneratedWindow)
	}
	if AppConfig.StorageBucket != "declarations" {
		t.Errorf("StorageBucket = %v, want declarations", AppConfig.StorageBucket)
	}
}

func TestLoadConfig_MissingStorageEndpoint(t *testing.T) {
	os.Unsetenv("STORAGE_ENDPOINT")

	if err := LoadConfig(); err == nil {
		t.Error("LoadConfig() without STORAGE_ENDPOINT expected error, got nil")
	}
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	os.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	os.Setenv("PORT", "not-a-number")
	defer func() {
		os.Unsetenv("STORAGE_ENDPOINT")
		os.Unsetenv("PORT")
	}()

	if err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with invalid PORT expected error, got nil")
	}
}

func TestLoadConfig_CustomWindow(t *testing.T) {
	os.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	os.Setenv("RECENT_GENERATED_WINDOW", "48h")
	defer func() {
		os.Unsetenv("STORAGE_ENDPOINT")
		os.Unsetenv("RECENT_GENERATED_WINDOW")
	}()

	if err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if AppConfig.RecentGeneratedWindow != 48*time.Hour {
		t.Errorf("RecentGeneratedWindow = %v, want 48h", AppConfig.RecentGeneratedWindow)
	}
}
