//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestAuthFlow(t *testing.T) {
	env := SetupTestEnv(t)

	t.Run("register returns token pair", func(t *testing.T) {
		result := RegisterUser(t, env, "flow@test.com", "password123")
		data := result["data"].(map[string]any)
		if data["access_token"] == "" || data["refresh_token"] == "" {
			t.Fatal("expected non-empty token pair")
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		body := map[string]string{"email": "flow@test.com", "display_name": "Dup", "password": "password123"}
		resp := DoRequest(t, env, "POST", "/api/v1/auth/register", body, "")
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("login with wrong password fails", func(t *testing.T) {
		body := map[string]string{"email": "flow@test.com", "password": "wrong-password"}
		resp := DoRequest(t, env, "POST", "/api/v1/auth/login", body, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("refresh rotates tokens", func(t *testing.T) {
		result := RegisterUser(t, env, "refresh@test.com", "password123")
		data := result["data"].(map[string]any)
		refreshToken := data["refresh_token"].(string)

		resp := DoRequest(t, env, "POST", "/api/v1/auth/refresh",
			map[string]string{"refresh_token": refreshToken}, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		// The old refresh token is revoked
		resp = DoRequest(t, env, "POST", "/api/v1/auth/refresh",
			map[string]string{"refresh_token": refreshToken}, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 on reused refresh token, got %d", resp.StatusCode)
		}
	})

	t.Run("protected route requires token", func(t *testing.T) {
		resp := DoRequest(t, env, "GET", "/api/v1/credits", nil, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})
}
