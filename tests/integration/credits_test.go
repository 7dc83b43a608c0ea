//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCreditLedger(t *testing.T) {
	env := SetupTestEnv(t)

	RegisterUser(t, env, "credits@test.com", "password123")
	token := LoginUser(t, env, "credits@test.com", "password123")

	t.Run("new user starts on free plan with 10 credits", func(t *testing.T) {
		resp := DoRequest(t, env, "GET", "/api/v1/credits", nil, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		data := ParseResponse(t, resp)["data"].(map[string]any)
		if data["plan"] != "free" {
			t.Fatalf("expected free plan, got %v", data["plan"])
		}
		if data["daily_allotment"] != float64(10) || data["remaining"] != float64(10) {
			t.Fatalf("expected allotment 10 / remaining 10, got %v / %v",
				data["daily_allotment"], data["remaining"])
		}
	})

	t.Run("plan change resets usage and raises allotment", func(t *testing.T) {
		resp := DoRequest(t, env, "PUT", "/api/v1/credits/plan",
			map[string]string{"plan": "starter"}, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		data := ParseResponse(t, resp)["data"].(map[string]any)
		if data["plan"] != "starter" || data["daily_allotment"] != float64(100) {
			t.Fatalf("expected starter/100, got %v/%v", data["plan"], data["daily_allotment"])
		}
		if data["used_today"] != float64(0) {
			t.Fatalf("expected usage reset, got %v", data["used_today"])
		}
	})

	t.Run("invalid plan rejected", func(t *testing.T) {
		resp := DoRequest(t, env, "PUT", "/api/v1/credits/plan",
			map[string]string{"plan": "platinum"}, token)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestCreditGatedAnalysis(t *testing.T) {
	env := SetupTestEnv(t)

	RegisterUser(t, env, "analyst@test.com", "password123")
	token := LoginUser(t, env, "analyst@test.com", "password123")

	// Create an idea to analyze
	resp := DoRequest(t, env, "POST", "/api/v1/ideas",
		map[string]string{"title": "Solar powered kettle", "description": "Boils water with sunshine"}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("creating idea: expected 201, got %d", resp.StatusCode)
	}
	ideaID := ParseResponse(t, resp)["data"].(map[string]any)["id"].(string)

	t.Run("validation deducts five credits", func(t *testing.T) {
		resp := DoRequest(t, env, "POST", "/api/v1/ideas/"+ideaID+"/analysis",
			map[string]string{"kind": "validation"}, token)
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", resp.StatusCode)
		}

		balResp := DoRequest(t, env, "GET", "/api/v1/credits", nil, token)
		data := ParseResponse(t, balResp)["data"].(map[string]any)
		if data["used_today"] != float64(5) || data["remaining"] != float64(5) {
			t.Fatalf("expected used 5 / remaining 5, got %v / %v",
				data["used_today"], data["remaining"])
		}
	})

	t.Run("deep research beyond free quota returns 402", func(t *testing.T) {
		resp := DoRequest(t, env, "POST", "/api/v1/ideas/"+ideaID+"/analysis",
			map[string]string{"kind": "deep_research"}, token)
		if resp.StatusCode != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d", resp.StatusCode)
		}
		data := ParseResponse(t, resp)["data"].(map[string]any)
		if data["required"] != float64(25) || data["remaining"] != float64(5) {
			t.Fatalf("expected required 25 / remaining 5, got %v / %v",
				data["required"], data["remaining"])
		}
	})

	t.Run("refused request is not queued", func(t *testing.T) {
		resp := DoRequest(t, env, "GET", "/api/v1/ideas/"+ideaID+"/analysis", nil, token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		data := ParseResponse(t, resp)["data"].([]any)
		if len(data) != 1 {
			t.Fatalf("expected exactly 1 queued analysis, got %d", len(data))
		}
	})

	t.Run("operator plan is never refused", func(t *testing.T) {
		DoRequest(t, env, "PUT", "/api/v1/credits/plan",
			map[string]string{"plan": "operator"}, token)

		for i := 0; i < 3; i++ {
			resp := DoRequest(t, env, "POST", "/api/v1/ideas/"+ideaID+"/analysis",
				map[string]string{"kind": "deep_research"}, token)
			if resp.StatusCode != http.StatusAccepted {
				t.Fatalf("request %d: expected 202, got %d", i+1, resp.StatusCode)
			}
		}

		balResp := DoRequest(t, env, "GET", "/api/v1/credits", nil, token)
		data := ParseResponse(t, balResp)["data"].(map[string]any)
		if data["remaining"] != float64(-1) {
			t.Fatalf("expected unlimited remaining sentinel -1, got %v", data["remaining"])
		}
	})
}
