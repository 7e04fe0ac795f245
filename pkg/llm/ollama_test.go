package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProviderUsesOpenAIFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"local answer"}}]}`))
	}))
	defer server.Close()

	provider := NewOllamaProvider(Config{APIURL: server.URL, Model: "llama3"})
	text, err := provider.Complete(context.Background(), []Message{UserMessage("hi")})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "local answer" {
		t.Fatalf("unexpected content %q", text)
	}
}

func TestOllamaProviderDefaultURL(t *testing.T) {
	provider := NewOllamaProvider(Config{Model: "llama3"})
	if provider.openai.apiURL != "http://localhost:11434/v1" {
		t.Fatalf("unexpected default url %q", provider.openai.apiURL)
	}
}
