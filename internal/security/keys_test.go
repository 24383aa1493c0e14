package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParsePrivateKey_InlinePEM(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	if signer == nil {
		t.Fatal("signer should not be nil")
	}
}

func TestParsePublicKey_InlinePEM(t *testing.T) {
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if pub == nil {
		t.Fatal("public key should not be nil")
	}
}

func TestParsePrivateKey_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	if err := os.WriteFile(path, []byte(testPrivateKeyPEM), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	signer, err := ParsePrivateKey(path)
	if err != nil {
		t.Fatalf("ParsePrivateKey from file: %v", err)
	}
	if signer == nil {
		t.Fatal("signer should not be nil")
	}
}

func TestParseKeys_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not pem", "-----BEGIN GARBAGE-----\nabc\n-----END GARBAGE-----"},
		{"missing file", "/nonexistent/key.pem"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePrivateKey(tc.input); err == nil {
				t.Errorf("ParsePrivateKey(%q) should fail", tc.input)
			}
			if _, err := ParsePublicKey(tc.input); err == nil {
				t.Errorf("ParsePublicKey(%q) should fail", tc.input)
			}
		})
	}
}

func TestLoadPEM_EmptyIsInvalidKey(t *testing.T) {
	if _, err := LoadPEM(""); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("LoadPEM(\"\") = %v, want ErrInvalidKey", err)
	}
}
