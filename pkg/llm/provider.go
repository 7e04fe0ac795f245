package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// Provider generates a single completion for a conversation. Generation
// flows build a prompt, call Complete once, and parse the returned text.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage and UserMessage build the two message shapes every
// generation flow uses.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

const maxRetries = 3

var retryDelays = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

// doWithRetry executes the request, retrying on 429 and 5xx responses and on
// transport errors. The request factory is called per attempt so the body
// reader is fresh each time.
func doWithRetry(ctx context.Context, client *http.Client, newRequest func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelays[attempt-1]):
			}
		}

		req, err := newRequest()
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			lastErr = errors.New("upstream returned " + resp.Status)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}
