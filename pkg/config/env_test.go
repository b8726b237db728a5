package config

import (
	"os"
	"testing"
)

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_GET_ENV_VAR", "test_value")
	defer os.Unsetenv("TEST_GET_ENV_VAR")

	got := GetEnv("TEST_GET_ENV_VAR", "default")
	if got != "test_value" {
		t.Errorf("GetEnv() = %v, want %v", got, "test_value")
	}

	got = GetEnv("NON_EXISTING_VAR", "default_value")
	if got != "default_value" {
		t.Errorf("GetEnv() = %v, want %v", got, "default_value")
	}
}

func TestRequireEnv(t *testing.T) {
	os.Setenv("TEST_REQUIRE_ENV_VAR", "required_value")
	defer os.Unsetenv("TEST_REQUIRE_ENV_VAR")

	got := RequireEnv("TEST_REQUIRE_ENV_VAR")
	if got != "required_value" {
		t.Errorf("RequireEnv() = %v, want %v", got, "required_value")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("RequireEnv() should panic for missing env var")
		}
	}()
	RequireEnv("DEFINITELY_NON_EXISTING_VAR_12345")
}

func TestGetEnvironment(t *testing.T) {
	original := os.Getenv("TALENTFLOW_SERVER_ENVIRONMENT")
	defer func() {
		if original != "" {
			os.Setenv("TALENTFLOW_SERVER_ENVIRONMENT", original)
		} else {
			os.Unsetenv("TALENTFLOW_SERVER_ENVIRONMENT")
		}
	}()

	tests := []struct {
		envValue string
		want     string
	}{
		{"development", "development"},
		{"DEVELOPMENT", "development"},
		{"staging", "staging"},
		{"Production", "production"},
		{"", "development"},
	}

	for _, tt := range tests {
		t.Run(tt.envValue, func(t *testing.T) {
			if tt.envValue == "" {
				os.Unsetenv("TALENTFLOW_SERVER_ENVIRONMENT")
			} else {
				os.Setenv("TALENTFLOW_SERVER_ENVIRONMENT", tt.envValue)
			}
			if got := GetEnvironment(); got != tt.want {
				t.Errorf("GetEnvironment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsProductionLike(t *testing.T) {
	original := os.Getenv("TALENTFLOW_SERVER_ENVIRONMENT")
	defer func() {
		if original != "" {
			os.Setenv("TALENTFLOW_SERVER_ENVIRONMENT", original)
		} else {
			os.Unsetenv("TALENTFLOW_SERVER_ENVIRONMENT")
		}
	}()

	os.Setenv("TALENTFLOW_SERVER_ENVIRONMENT", "staging")
	if !IsProductionLike() {
		t.Error("IsProductionLike() should be true in staging")
	}

	os.Setenv("TALENTFLOW_SERVER_ENVIRONMENT", "development")
	if IsProductionLike() {
		t.Error("IsProductionLike() should be false in development")
	}
}
