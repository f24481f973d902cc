package auth

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash format: got %q", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("expected correct password to verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword (wrong): %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail")
	}
}

func TestHashPassword_Invalid(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}

	long := strings.Repeat("a", maxPasswordLength+1)
	if _, err := HashPassword(long); err == nil {
		t.Error("expected error for oversized password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "whatever")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("malformed hash must not verify")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ")
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	keyHex := strings.Repeat("ab", 32)
	svc, err := NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	user := &domain.User{
		ID:      "usr-1",
		Email:   "julia@example.com",
		IsAdmin: true,
	}

	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if !strings.HasPrefix(token, "v4.local.") {
		t.Errorf("token format: got %q", token[:20])
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != "usr-1" {
		t.Errorf("UserID: got %q", claims.UserID)
	}
	if claims.Email != "julia@example.com" {
		t.Errorf("Email: got %q", claims.Email)
	}
	if !claims.IsAdmin {
		t.Error("IsAdmin: expected true")
	}
	if claims.Subject != "usr-1" {
		t.Errorf("Subject: got %q", claims.Subject)
	}
	if claims.TokenID == "" {
		t.Error("TokenID: expected non-empty")
	}
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc := newTestTokenService(t)

	other, err := NewTokenService(strings.Repeat("cd", 32), 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := svc.GenerateAccessToken(&domain.User{ID: "usr-1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Error("expected verification with wrong key to fail")
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	keyHex := strings.Repeat("ab", 32)
	svc, err := NewTokenService(keyHex, -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := svc.GenerateAccessToken(&domain.User{ID: "usr-1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("expected expired token to fail verification")
	}
}

func TestNewTokenService_BadKey(t *testing.T) {
	if _, err := NewTokenService("short", time.Minute, time.Hour); err == nil {
		t.Error("expected error for short key")
	}
	if _, err := NewTokenService(strings.Repeat("zz", 32), time.Minute, time.Hour); err == nil {
		t.Error("expected error for non-hex key")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	hash := HashRefreshToken(token)
	if hash == token {
		t.Error("hash must differ from token")
	}
	if _, err := hex.DecodeString(hash); err != nil {
		t.Errorf("hash must be hex: %v", err)
	}
	// Deterministic.
	if HashRefreshToken(token) != hash {
		t.Error("hash must be deterministic")
	}

	// Distinct tokens hash differently.
	token2, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if HashRefreshToken(token2) == hash {
		t.Error("distinct tokens must hash differently")
	}
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}
	if len(key1) != keyLength {
		t.Fatalf("key length: got %d", len(key1))
	}

	// Second load returns the persisted key.
	key2, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey (reload): %v", err)
	}
	if hex.EncodeToString(key1) != hex.EncodeToString(key2) {
		t.Error("expected the same key on reload")
	}
}
