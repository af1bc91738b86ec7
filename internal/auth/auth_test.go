package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashKey_Format(t *testing.T) {
	t.Parallel()

	hash, err := HashKey("fk_live_abc123_0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash should have 6 parts, got: %d", len(parts))
	}
	if parts[1] != "argon2id" {
		t.Errorf("Expected argon2id algorithm, got: %s", parts[1])
	}
	if parts[2] != "v=19" {
		t.Errorf("Expected v=19, got: %s", parts[2])
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestVerifyKey(t *testing.T) {
	t.Parallel()

	key := "fk_test_aaaaaa_0123456789abcdef0123456789abcdef"
	hash, err := HashKey(key)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	if ok, err := VerifyKey(key, hash); err != nil || !ok {
		t.Errorf("correct key should verify, got ok=%v err=%v", ok, err)
	}

	if ok, _ := VerifyKey(key+"x", hash); ok {
		t.Error("wrong key should not verify")
	}
}

func TestVerifyKey_InvalidHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA", ErrInvalidHash},
		{"wrong version", "$argon2id$v=16$m=65536,t=3,p=4$c2FsdA$aGFzaA", ErrIncompatibleVersion},
		{"bad params", "$argon2id$v=19$bogus$c2FsdA$aGFzaA", ErrInvalidHash},
		{"bad salt", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA", ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyKey("anything", tt.hash)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyKey error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	gen, err := GenerateKey(EnvLive)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	parsed, err := ParseKey(gen.Plaintext)
	if err != nil {
		t.Fatalf("generated key should parse: %v", err)
	}
	if parsed.Env != EnvLive {
		t.Errorf("Env = %s, want live", parsed.Env)
	}
	if parsed.Prefix != gen.Prefix {
		t.Errorf("Prefix = %s, want %s", parsed.Prefix, gen.Prefix)
	}
	if len(parsed.Secret) != KeySecretLen {
		t.Errorf("secret length = %d, want %d", len(parsed.Secret), KeySecretLen)
	}

	if ok, err := VerifyKey(gen.Plaintext, gen.Hash); err != nil || !ok {
		t.Error("generated hash should verify the generated key")
	}
}

func TestGenerateKey_DefaultsToLive(t *testing.T) {
	t.Parallel()

	gen, err := GenerateKey("staging")
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	if !strings.HasPrefix(gen.Plaintext, "fk_live_") {
		t.Errorf("expected live key, got %s", gen.Plaintext)
	}
}

func TestParseKey_Invalid(t *testing.T) {
	t.Parallel()

	invalid := []string{
		"",
		"pk_live_abc123_0123456789abcdef0123456789abcdef",
		"fk_prod_abc123_0123456789abcdef0123456789abcdef",
		"fk_live_ABC123_0123456789abcdef0123456789abcdef",
		"fk_live_abc12_0123456789abcdef0123456789abcdef",
		"fk_live_abc123_0123",
	}

	for _, key := range invalid {
		if _, err := ParseKey(key); !errors.Is(err, ErrInvalidKeyFormat) {
			t.Errorf("ParseKey(%q) = %v, want ErrInvalidKeyFormat", key, err)
		}
	}
}

func TestAdminVerifier(t *testing.T) {
	t.Parallel()

	gen, err := GenerateKey(EnvTest)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	v, err := NewAdminVerifier(gen.Hash)
	if err != nil {
		t.Fatalf("NewAdminVerifier failed: %v", err)
	}

	if !v.Enabled() {
		t.Fatal("verifier with hash should be enabled")
	}
	if !v.Verify(gen.Plaintext) {
		t.Error("admin key should verify")
	}
	if v.Verify("fk_test_000000_00000000000000000000000000000000") {
		t.Error("other key should not verify")
	}
	if v.Verify("not-a-key") {
		t.Error("malformed key should not verify")
	}
}

func TestAdminVerifier_Disabled(t *testing.T) {
	t.Parallel()

	v, err := NewAdminVerifier("")
	if err != nil {
		t.Fatalf("NewAdminVerifier failed: %v", err)
	}
	if v.Enabled() {
		t.Error("verifier without hash should be disabled")
	}
	if v.Verify("fk_live_abc123_0123456789abcdef0123456789abcdef") {
		t.Error("disabled verifier must not accept keys")
	}
}

func TestNewAdminVerifier_RejectsMalformedHash(t *testing.T) {
	t.Parallel()

	if _, err := NewAdminVerifier("plaintext-oops"); err == nil {
		t.Error("expected error for malformed hash")
	}
}
