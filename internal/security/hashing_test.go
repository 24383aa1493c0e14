package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash([]byte("pw1"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "" || hash == "pw1" {
		t.Fatalf("hash should be a non-empty derived value, got %q", hash)
	}
	if err := h.Compare(hash, []byte("pw1")); err != nil {
		t.Errorf("Compare with correct password: %v", err)
	}
	if err := h.Compare(hash, []byte("wrong")); err == nil {
		t.Error("Compare with wrong password should fail")
	}
}

func TestHasher_SaltedPerHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash([]byte("same-password"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := h.Hash([]byte("same-password"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ (per-hash salt)")
	}
}

func TestNewHasher_CostClamping(t *testing.T) {
	testCases := []struct {
		name string
		cost int
		want int
	}{
		{"zero uses default", 0, bcrypt.DefaultCost},
		{"negative uses default", -1, bcrypt.DefaultCost},
		{"below min clamps", 2, bcrypt.MinCost},
		{"above max clamps", 99, bcrypt.MaxCost},
		{"in range kept", 10, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewHasher(tc.cost).Cost; got != tc.want {
				t.Errorf("NewHasher(%d).Cost = %d, want %d", tc.cost, got, tc.want)
			}
		})
	}
}

func TestHasher_CompareInvalidHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	if err := h.Compare("not-a-bcrypt-hash", []byte("pw")); err == nil {
		t.Error("Compare with malformed hash should fail")
	}
}

func TestHasher_HashNeverContainsPlaintext(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash([]byte("hunter2hunter2"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if strings.Contains(hash, "hunter2") {
		t.Error("hash must not embed the plaintext password")
	}
}
