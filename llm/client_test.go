package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientCreateChatCompletionStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt-4o\",\"choices\":[{\"index\":0,\"delta\":{\"role\":\"assistant\",\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt-4o\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	var chunks []string
	err := client.CreateChatCompletionStream(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-4o",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	}, func(chunk *StreamChunk) error {
		chunks = append(chunks, chunk.DeltaContent())
		return nil
	})
	if err != nil {
		t.Fatalf("CreateChatCompletionStream failed: %v", err)
	}
	if len(chunks) != 2 || chunks[0] != "Hel" || chunks[1] != "lo" {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}

func TestClientCreateChatCompletionStreamHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"authentication_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", time.Second)
	err := client.CreateChatCompletionStream(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-4o",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	}, func(chunk *StreamChunk) error {
		t.Fatal("callback must not run on an HTTP error")
		return nil
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestClientStreamSurfacesErrorChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"error\":{\"message\":\"rate limited\",\"code\":\"rate_limit_exceeded\"}}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	var sawError *APIError
	err := client.CreateChatCompletionStream(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-4o",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	}, func(chunk *StreamChunk) error {
		sawError = chunk.Error
		return nil
	})
	if err != nil {
		t.Fatalf("CreateChatCompletionStream failed: %v", err)
	}
	if sawError == nil || sawError.Code != "rate_limit_exceeded" {
		t.Fatalf("expected error chunk to reach the callback, got %+v", sawError)
	}
}

func TestClientStreamSkipsMalformedChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: not json\n\n")
		fmt.Fprint(w, ": comment line\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"ok\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	var chunks []string
	err := client.CreateChatCompletionStream(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-4o",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	}, func(chunk *StreamChunk) error {
		chunks = append(chunks, chunk.DeltaContent())
		return nil
	})
	if err != nil {
		t.Fatalf("CreateChatCompletionStream failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "ok" {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}

func TestClientStreamCallbackErrorStopsStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"a\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"b\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	calls := 0
	err := client.CreateChatCompletionStream(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-4o",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	}, func(chunk *StreamChunk) error {
		calls++
		return fmt.Errorf("stop")
	})
	if err == nil || err.Error() != "stop" {
		t.Fatalf("expected callback error to propagate, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected the stream to stop after the first callback error, got %d calls", calls)
	}
}
