package crypto

import (
	"bytes"
	"testing"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()
	encKey := bytes.Repeat([]byte{0x11}, 32)
	idxKey := bytes.Repeat([]byte{0x22}, 32)
	c, err := NewCipher(encKey, idxKey)
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	return c
}

func TestNewCipherRejectsShortKeys(t *testing.T) {
	if _, err := NewCipher([]byte("short"), bytes.Repeat([]byte{1}, 32)); err == nil {
		t.Fatal("expected error for short encryption key")
	}
	if _, err := NewCipher(bytes.Repeat([]byte{1}, 32), []byte("short")); err == nil {
		t.Fatal("expected error for short blind index key")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := testCipher(t)

	plaintext := "user@example.com"
	encrypted, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if encrypted == plaintext {
		t.Fatal("ciphertext equals plaintext")
	}
	decrypted, err := c.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if decrypted != plaintext {
		t.Fatalf("round trip = %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptEmptyStringStaysEmpty(t *testing.T) {
	c := testCipher(t)
	got, err := c.Encrypt("")
	if err != nil || got != "" {
		t.Fatalf("Encrypt(\"\") = (%q, %v), want empty", got, err)
	}
}

func TestDecryptGarbageFails(t *testing.T) {
	c := testCipher(t)
	if _, err := c.Decrypt("bm90IGEgY2lwaGVydGV4dA=="); err == nil {
		t.Fatal("expected error decrypting garbage")
	}
}

func TestBlindIndexDeterministic(t *testing.T) {
	c := testCipher(t)
	a := c.BlindIndex("user@example.com")
	b := c.BlindIndex("user@example.com")
	if a == "" || a != b {
		t.Fatalf("blind index not deterministic: %q vs %q", a, b)
	}
	if c.BlindIndex("other@example.com") == a {
		t.Fatal("distinct inputs collided")
	}
}
