package grant

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvCallerGrantIssuer, "")
	t.Setenv(EnvCallerGrantAudience, "")
	t.Setenv(EnvCallerGrantPublicKey, "")

	cfg, err := LoadConfigFromEnv(nil)
	if err != nil {
		t.Fatalf("empty env must yield a disabled config, got %v", err)
	}
	if cfg.Enabled() {
		t.Fatal("expected disabled verifier")
	}

	t.Setenv(EnvCallerGrantIssuer, "issuer")
	if _, err := LoadConfigFromEnv(nil); err == nil {
		t.Fatal("expected error for partial configuration")
	}

	pubKey, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	t.Setenv(EnvCallerGrantAudience, "audience")
	t.Setenv(EnvCallerGrantPublicKey, base64.RawStdEncoding.EncodeToString(pubKey))

	cfg, err = LoadConfigFromEnv(nil)
	if err != nil {
		t.Fatalf("load caller grant config: %v", err)
	}
	if cfg.Issuer != "issuer" || cfg.Audience != "audience" {
		t.Fatal("expected issuer and audience to be loaded")
	}
	if !cfg.Enabled() {
		t.Fatal("expected enabled verifier")
	}
}

func TestValidateSuccess(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	token := signGrant(t, priv, map[string]any{
		"alg": "EdDSA",
		"typ": "JWT",
	}, map[string]any{
		"iss": "issuer",
		"aud": []string{"ledger", "secondary"},
		"sub": "alice",
		"exp": now.Add(2 * time.Hour).Unix(),
		"iat": now.Add(-time.Minute).Unix(),
		"jti": "jti-1",
	})

	cfg := Config{Issuer: "issuer", Audience: "ledger", Key: pub, Now: func() time.Time { return now }}
	claims, err := Validate(token, cfg)
	if err != nil {
		t.Fatalf("validate caller grant: %v", err)
	}
	if claims.Caller != "alice" {
		t.Fatalf("expected caller alice, got %s", claims.Caller)
	}
	if !claims.ExpiresAt.Equal(time.Unix(now.Add(2*time.Hour).Unix(), 0).UTC()) {
		t.Fatal("expected expires at to match exp")
	}
}

func TestValidateExpired(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	token := signGrant(t, priv, map[string]any{"alg": "EdDSA"}, map[string]any{
		"iss": "issuer",
		"aud": "ledger",
		"sub": "alice",
		"exp": now.Add(-time.Minute).Unix(),
		"jti": "jti-1",
	})

	cfg := Config{Issuer: "issuer", Audience: "ledger", Key: pub, Now: func() time.Time { return now }}
	if _, err := Validate(token, cfg); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expired error, got %v", err)
	}
}

func TestValidateClaimMismatches(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	cfg := Config{Issuer: "issuer", Audience: "ledger", Key: pub, Now: func() time.Time { return now }}

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name: "wrong issuer",
			payload: map[string]any{
				"iss": "other", "aud": "ledger", "sub": "alice",
				"exp": now.Add(time.Hour).Unix(), "jti": "jti-1",
			},
			want: "issuer mismatch",
		},
		{
			name: "wrong audience",
			payload: map[string]any{
				"iss": "issuer", "aud": "other", "sub": "alice",
				"exp": now.Add(time.Hour).Unix(), "jti": "jti-1",
			},
			want: "audience mismatch",
		},
		{
			name: "missing subject",
			payload: map[string]any{
				"iss": "issuer", "aud": "ledger",
				"exp": now.Add(time.Hour).Unix(), "jti": "jti-1",
			},
			want: "sub is required",
		},
		{
			name: "missing jti",
			payload: map[string]any{
				"iss": "issuer", "aud": "ledger", "sub": "alice",
				"exp": now.Add(time.Hour).Unix(),
			},
			want: "jti is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signGrant(t, priv, map[string]any{"alg": "EdDSA"}, tt.payload)
			_, err := Validate(token, cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q error, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateInvalidSignature(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	cfg := Config{Issuer: "issuer", Audience: "ledger", Key: pub, Now: time.Now}
	if _, err := Validate("invalid.token.parts", cfg); err == nil {
		t.Fatal("expected error for invalid caller grant")
	}
}

func signGrant(t *testing.T, privateKey ed25519.PrivateKey, header, payload map[string]any) string {
	t.Helper()

	headerJSON, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	encodedHeader := base64.RawURLEncoding.EncodeToString(headerJSON)
	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadJSON)
	signingInput := encodedHeader + "." + encodedPayload
	signature := ed25519.Sign(privateKey, []byte(signingInput))
	encodedSig := base64.RawURLEncoding.EncodeToString(signature)
	return signingInput + "." + encodedSig
}
