package security

import (
	"testing"
	"time"
)

func TestChildTokenRoundTrip(t *testing.T) {
	issuer := NewChildTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, 7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if claims.ChildID != 42 {
		t.Errorf("ChildID = %d, want 42", claims.ChildID)
	}
	if claims.FamilyUserID != 7 {
		t.Errorf("FamilyUserID = %d, want 7", claims.FamilyUserID)
	}
}

func TestChildTokenWrongSecret(t *testing.T) {
	issuer := NewChildTokenIssuer("secret-one", time.Hour)
	other := NewChildTokenIssuer("secret-two", time.Hour)

	token, err := issuer.Issue(1, 1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Error("Parse() accepted a token signed with a different secret")
	}
}

func TestChildTokenExpired(t *testing.T) {
	issuer := NewChildTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(1, 1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Error("Parse() accepted an expired token")
	}
}

func TestChildTokenGarbage(t *testing.T) {
	issuer := NewChildTokenIssuer("test-secret", time.Hour)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Parse(input); err == nil {
			t.Errorf("Parse(%q) accepted malformed input", input)
		}
	}
}
