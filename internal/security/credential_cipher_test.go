package security

import (
	"strings"
	"testing"
)

func TestEncryptDecryptCredential(t *testing.T) {
	t.Setenv("PROXYVET_ENCRYPTION_KEY", "credential-cipher-test-key")
	ResetCredentialCipherForTests()
	t.Cleanup(ResetCredentialCipherForTests)

	encrypted, err := EncryptCredential("s3cret:with:colons")
	if err != nil {
		t.Fatalf("EncryptCredential returned error: %v", err)
	}
	if !strings.HasPrefix(encrypted, CredentialPrefix) {
		t.Fatalf("ciphertext %q lacks prefix %q", encrypted, CredentialPrefix)
	}

	plain, err := DecryptCredential(encrypted)
	if err != nil {
		t.Fatalf("DecryptCredential returned error: %v", err)
	}
	if plain != "s3cret:with:colons" {
		t.Fatalf("decrypted value was %q", plain)
	}
}

func TestDecryptCredentialPassthrough(t *testing.T) {
	t.Setenv("PROXYVET_ENCRYPTION_KEY", "credential-cipher-test-key")
	ResetCredentialCipherForTests()
	t.Cleanup(ResetCredentialCipherForTests)

	plain, err := DecryptCredential("legacy-plaintext")
	if err != nil {
		t.Fatalf("DecryptCredential returned error: %v", err)
	}
	if plain != "legacy-plaintext" {
		t.Fatalf("passthrough value was %q", plain)
	}
}

func TestEncryptCredentialRequiresKey(t *testing.T) {
	t.Setenv("PROXYVET_ENCRYPTION_KEY", "")
	ResetCredentialCipherForTests()
	t.Cleanup(ResetCredentialCipherForTests)

	if _, err := EncryptCredential("value"); err == nil {
		t.Fatal("expected error without encryption key")
	}
}

func TestEmptyCredentialRoundTrip(t *testing.T) {
	encrypted, err := EncryptCredential("")
	if err != nil || encrypted != "" {
		t.Fatalf("empty encrypt returned %q, %v", encrypted, err)
	}
	plain, err := DecryptCredential("")
	if err != nil || plain != "" {
		t.Fatalf("empty decrypt returned %q, %v", plain, err)
	}
}
