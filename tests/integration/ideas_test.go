//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestIdeaLifecycle(t *testing.T) {
	env := SetupTestEnv(t)

	RegisterUser(t, env, "founder@test.com", "password123")
	token := LoginUser(t, env, "founder@test.com", "password123")

	RegisterUser(t, env, "stranger@test.com", "password123")
	strangerToken := LoginUser(t, env, "stranger@test.com", "password123")

	resp := DoRequest(t, env, "POST", "/api/v1/ideas",
		map[string]string{"title": "Subscription toolbox", "description": "Tools by mail"}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	ideaID := ParseResponse(t, resp)["data"].(map[string]any)["id"].(string)

	t.Run("feed includes new idea with zero tally", func(t *testing.T) {
		resp := DoRequest(t, env, "GET", "/api/v1/ideas?sort=new", nil, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		items := ParseResponse(t, resp)["data"].([]any)
		if len(items) == 0 {
			t.Fatal("expected at least one idea in feed")
		}
		found := false
		for _, raw := range items {
			item := raw.(map[string]any)
			if item["id"] == ideaID {
				found = true
				tally := item["tally"].(map[string]any)
				if tally["use_count"] != float64(0) {
					t.Fatalf("expected zero tally, got %v", tally["use_count"])
				}
			}
		}
		if !found {
			t.Fatal("idea missing from feed")
		}
	})

	t.Run("comments attach to idea", func(t *testing.T) {
		resp := DoRequest(t, env, "POST", "/api/v1/ideas/"+ideaID+"/comments",
			map[string]string{"body": "Would definitely use this"}, strangerToken)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}

		resp = DoRequest(t, env, "GET", "/api/v1/ideas/"+ideaID+"/comments", nil, token)
		items := ParseResponse(t, resp)["data"].([]any)
		if len(items) != 1 {
			t.Fatalf("expected 1 comment, got %d", len(items))
		}
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		resp := DoRequest(t, env, "PUT", "/api/v1/ideas/"+ideaID,
			map[string]string{"title": "Hijacked title"}, strangerToken)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		resp := DoRequest(t, env, "DELETE", "/api/v1/ideas/"+ideaID, nil, strangerToken)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("owner deletes and idea disappears", func(t *testing.T) {
		resp := DoRequest(t, env, "DELETE", "/api/v1/ideas/"+ideaID, nil, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		resp = DoRequest(t, env, "GET", "/api/v1/ideas/"+ideaID, nil, token)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
		}
	})
}
