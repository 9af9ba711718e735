package common

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	s, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("not valid hex: %v", err)
	}
}

func TestMakeRandHexString_EntropyHint(t *testing.T) {
	a, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("two random strings were identical: %s", a)
	}
}

func TestMakeRandDigitCode(t *testing.T) {
	code, err := MakeRandDigitCode(OtpCodeLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != OtpCodeLength {
		t.Fatalf("expected %d digits, got %d", OtpCodeLength, len(code))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit rune %q in code %s", r, code)
		}
	}
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	b := []byte("secret")
	WipeByteArray(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not wiped", i)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{"candidate", "recruiter", "admin"} {
		if !ValidRole(r) {
			t.Fatalf("expected %s to be valid", r)
		}
	}
	if ValidRole("superuser") {
		t.Fatal("superuser should not be a valid role")
	}
	if RegistrableRole("admin") {
		t.Fatal("admin must not be registrable")
	}
}
