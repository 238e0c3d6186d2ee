package crypto

import (
	"bytes"
	"testing"
)

func TestDeriveKeyFromPassphrase(t *testing.T) {
	key, salt, err := DeriveKeyFromPassphrase("correct horse battery staple")
	if err != nil {
		t.Fatalf("DeriveKeyFromPassphrase: %v", err)
	}
	if len(key) != keyLen {
		t.Errorf("key length = %d, want %d", len(key), keyLen)
	}
	if len(salt) != saltLen {
		t.Errorf("salt length = %d, want %d", len(salt), saltLen)
	}

	again, err := DeriveKeyFromPassphraseWithSalt("correct horse battery staple", salt)
	if err != nil {
		t.Fatalf("DeriveKeyFromPassphraseWithSalt: %v", err)
	}
	if !bytes.Equal(key, again) {
		t.Fatal("same passphrase and salt must derive the same key")
	}
}

func TestDeriveKeyFromPassphrase_RandomSalt(t *testing.T) {
	k1, s1, _ := DeriveKeyFromPassphrase("same")
	k2, s2, _ := DeriveKeyFromPassphrase("same")
	if bytes.Equal(s1, s2) {
		t.Error("salts should differ between derivations")
	}
	if bytes.Equal(k1, k2) {
		t.Error("keys should differ when salts differ")
	}
}

func TestDeriveKeyFromPassphraseWithSalt_BadSalt(t *testing.T) {
	if _, err := DeriveKeyFromPassphraseWithSalt("x", []byte("short")); err == nil {
		t.Fatal("expected error for short salt")
	}
}

func TestVerifyPassphrase(t *testing.T) {
	key, salt, err := DeriveKeyFromPassphrase("open sesame")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	tests := []struct {
		name       string
		passphrase string
		want       bool
	}{
		{"correct", "open sesame", true},
		{"wrong", "open says me", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassphrase(tt.passphrase, salt, key)
			if err != nil {
				t.Fatalf("VerifyPassphrase: %v", err)
			}
			if ok != tt.want {
				t.Errorf("VerifyPassphrase(%q) = %v, want %v", tt.passphrase, ok, tt.want)
			}
		})
	}
}

func TestVerifyPassphrase_BadKeyLength(t *testing.T) {
	_, salt, _ := DeriveKeyFromPassphrase("x")
	if _, err := VerifyPassphrase("x", salt, []byte("short")); err == nil {
		t.Fatal("expected error for truncated key")
	}
}
