package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.EndpointAddr != ":8080" {
		t.Fatalf("unexpected default address: %s", cfg.EndpointAddr)
	}
	if cfg.AccessTokenValidityDuration != 15*time.Minute {
		t.Fatalf("unexpected access token validity: %s", cfg.AccessTokenValidityDuration)
	}
	if cfg.RefreshTokenValidityDuration <= cfg.AccessTokenValidityDuration {
		t.Fatal("refresh token must outlive access token")
	}
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("SECRET_KEY", "from-env")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.EndpointAddr != ":9090" {
		t.Fatalf("env override not applied: %s", cfg.EndpointAddr)
	}
	if cfg.SecretKey != "from-env" {
		t.Fatalf("env override not applied: %s", cfg.SecretKey)
	}
	// untouched fields keep defaults
	if cfg.S3Bucket != "resumes" {
		t.Fatalf("default lost: %s", cfg.S3Bucket)
	}
}
