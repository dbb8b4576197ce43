package utils

import (
	"testing"

	"kantodex/config"
	"kantodex/models"
)

func TestJWTRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	user := &models.User{ID: 42, Email: "joelle@example.com", Role: models.RoleHealer}
	access, refresh, err := GenerateJWTToken(user)
	if err != nil {
		t.Fatalf("GenerateJWTToken() error: %v", err)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatal("expected two distinct non-empty tokens")
	}

	claims, err := ParseJWTToken(access)
	if err != nil {
		t.Fatalf("ParseJWTToken() error: %v", err)
	}
	if claims.UserID != 42 || claims.Role != models.RoleHealer {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseJWTTokenRejectsGarbage(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	if _, err := ParseJWTToken("not.a.token"); err == nil {
		t.Fatal("expected an error for a malformed token")
	}

	// A token signed with another secret must not verify.
	config.AppConfig.JWTSecret = "other-secret"
	user := &models.User{ID: 1, Role: models.RoleTrainer}
	foreign, _, err := GenerateJWTToken(user)
	if err != nil {
		t.Fatalf("GenerateJWTToken() error: %v", err)
	}
	config.AppConfig.JWTSecret = "test-secret"
	if _, err := ParseJWTToken(foreign); err == nil {
		t.Fatal("expected a signature verification error")
	}
}
