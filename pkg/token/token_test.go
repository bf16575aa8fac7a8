package token

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndValidateSession(t *testing.T) {
	signed, claims, err := GenerateSession("member", 42, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSession: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected a session id")
	}

	got, err := ValidateSession(signed, "secret")
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if got.Kind != "member" || got.SubjectID != 42 || got.ID != claims.ID {
		t.Errorf("claims = %+v, want kind=member sub=42 jti=%s", got, claims.ID)
	}
}

func TestValidateSessionRejects(t *testing.T) {
	valid, _, err := GenerateSession("admin", 1, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSession: %v", err)
	}
	expired, _, err := GenerateSession("admin", 1, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateSession: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr string
	}{
		{"empty token", "", "secret", "empty"},
		{"wrong secret", valid, "other", "signature"},
		{"expired", expired, "secret", "expired"},
		{"garbage", "not.a.jwt", "secret", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSession(tt.token, tt.secret)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
