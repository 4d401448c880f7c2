package utils

import (
	"regexp"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "s3cret-pass" {
		t.Fatal("hash equals plain text")
	}
	if err := CheckPassword(hashed, "s3cret-pass"); err != nil {
		t.Errorf("matching password rejected: %v", err)
	}
	if err := CheckPassword(hashed, "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestVerificationCode(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 50; i++ {
		code, err := VerificationCode()
		if err != nil {
			t.Fatalf("code: %v", err)
		}
		if !re.MatchString(code) {
			t.Fatalf("code %q is not six digits", code)
		}
	}
}
