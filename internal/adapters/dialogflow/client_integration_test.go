package dialogflow

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
)

// TestClient_DetectIntent_Integration runs against a live Dialogflow agent.
// Skipped unless RUN_AI_TESTS=true and DIALOGFLOW_PROJECT_ID are set.
func TestClient_DetectIntent_Integration(t *testing.T) {
	if os.Getenv("RUN_AI_TESTS") != "true" {
		t.Skip("Skipping AI-dependent test (set RUN_AI_TESTS=true to enable)")
	}
	projectID := os.Getenv("DIALOGFLOW_PROJECT_ID")
	if projectID == "" {
		t.Skip("DIALOGFLOW_PROJECT_ID not set")
	}

	client := NewClient(NewAuthenticatedHTTPClient(context.Background(), os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")), "")

	q, err := domain.NewQuery(projectID, uuid.NewString(), "I want to save money", "en")
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	result, err := client.DetectIntent(context.Background(), q)
	if err != nil {
		t.Fatalf("DetectIntent() error = %v", err)
	}
	if result["queryText"] != "I want to save money" {
		t.Errorf("unexpected queryText: %v", result["queryText"])
	}
	t.Logf("Query result: %+v", result)
}
