package aireview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func summaryPrompt() Prompt {
	return Prompt{
		Question:    "Summarize the reviews.",
		RolePrompt:  "You are a review summarizer.",
		Model:       "gpt-4o-mini",
		MaxTokens:   500,
		Temperature: 0.1,
	}
}

func ratingPrompt() Prompt {
	p := summaryPrompt()
	p.Question = "Provide a numerical rating between 1 and 5."
	p.FunctionSchema = map[string]any{
		"name":        "rate_string",
		"description": "Evaluate a given string and return a rating between 1 and 5.",
	}
	return p
}

func TestQueryReturnsContent(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"Clean and quiet."}}]}`)
	}))
	defer server.Close()

	client := NewClient("sk-test", WithEndpoint(server.URL))
	answer, err := client.Query(context.Background(), "great stay", summaryPrompt())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if answer != "Clean and quiet." {
		t.Fatalf("answer = %q", answer)
	}

	if captured["model"] != "gpt-4o-mini" {
		t.Fatalf("model = %v", captured["model"])
	}
	if _, ok := captured["functions"]; ok {
		t.Fatal("functions should be absent without a schema")
	}
	messages := captured["messages"].([]any)
	content := messages[0].(map[string]any)["content"].(string)
	if !strings.Contains(content, "great stay") || !strings.Contains(content, "###") {
		t.Fatalf("prompt content = %q", content)
	}
}

func TestQueryFunctionCallArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := req["functions"]; !ok {
			t.Error("functions missing from request")
		}
		call := req["function_call"].(map[string]any)
		if call["name"] != "rate_string" {
			t.Errorf("function_call = %v", call)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"function_call":{"arguments":"{\"AI_rating\":4.5}"}}}]}`)
	}))
	defer server.Close()

	client := NewClient("sk-test", WithEndpoint(server.URL))
	answer, err := client.Query(context.Background(), "some reviews", ratingPrompt())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if rating := ExtractRating(answer); rating == nil || *rating != 4.5 {
		t.Fatalf("rating from %q = %v, want 4.5", answer, rating)
	}
}

func TestQueryAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key"}}`)
	}))
	defer server.Close()

	client := NewClient("sk-bad", WithEndpoint(server.URL))
	_, err := client.Query(context.Background(), "text", summaryPrompt())
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("err = %v, want http 401", err)
	}
}

func TestQueryRequiresInputs(t *testing.T) {
	client := NewClient("")
	if _, err := client.Query(context.Background(), "text", summaryPrompt()); err == nil {
		t.Fatal("expected error without api key")
	}
	keyed := NewClient("sk-test")
	if _, err := keyed.Query(context.Background(), "  ", summaryPrompt()); err == nil {
		t.Fatal("expected error for empty text")
	}
	if _, err := keyed.Query(context.Background(), "text", Prompt{}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}
