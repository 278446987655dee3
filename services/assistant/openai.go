package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dulai/models"
)

const completionTemperature = 0.4

// OpenAIStreamer talks to an OpenAI-compatible chat-completions endpoint over
// SSE, using the functions/function_call wire shape.
type OpenAIStreamer struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// NewOpenAIStreamer constructs a streamer for the given endpoint.
func NewOpenAIStreamer(apiKey, baseURL, model string) *OpenAIStreamer {
	return &OpenAIStreamer{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Model:      model,
		HTTPClient: &http.Client{},
	}
}

type chatCompletionRequest struct {
	Model        string           `json:"model"`
	Temperature  float64          `json:"temperature"`
	Stream       bool             `json:"stream"`
	Messages     []models.Message `json:"messages"`
	Functions    []FunctionSchema `json:"functions,omitempty"`
	FunctionCall string           `json:"function_call,omitempty"`
}

type functionCallDelta struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type messageDelta struct {
	Content      *string            `json:"content"`
	FunctionCall *functionCallDelta `json:"function_call"`
}

type streamChoice struct {
	Delta        messageDelta `json:"delta"`
	FinishReason string       `json:"finish_reason"`
}

type streamDelta struct {
	Choices []streamChoice `json:"choices"`
}

// StreamCompletion opens the streaming completion and returns the chunk
// channel. The channel is closed when the upstream turn ends or the context
// is cancelled.
func (c *OpenAIStreamer) StreamCompletion(ctx context.Context, req CompletionRequest) (<-chan CompletionChunk, error) {
	payload := chatCompletionRequest{
		Model:        c.Model,
		Temperature:  completionTemperature,
		Stream:       true,
		Messages:     req.Messages,
		Functions:    req.Functions,
		FunctionCall: "auto",
	}
	body, err := c.doRequest(ctx, payload)
	if err != nil {
		return nil, err
	}

	ch := make(chan CompletionChunk)
	go c.consumeStream(ctx, body, ch)
	return ch, nil
}

func (c *OpenAIStreamer) doRequest(ctx context.Context, payload chatCompletionRequest) (io.ReadCloser, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openai: %s: %s", resp.Status, data)
	}
	return resp.Body, nil
}

func (c *OpenAIStreamer) consumeStream(ctx context.Context, body io.ReadCloser, ch chan<- CompletionChunk) {
	defer close(ch)
	defer body.Close()

	push := func(chunk CompletionChunk) bool {
		select {
		case ch <- chunk:
			return true
		case <-ctx.Done():
			return false
		}
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 512*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return
		}
		var delta streamDelta
		if err := json.Unmarshal([]byte(data), &delta); err != nil {
			if !push(CompletionChunk{Err: fmt.Errorf("decode stream event: %w", err)}) {
				return
			}
			continue
		}
		if len(delta.Choices) == 0 {
			continue
		}
		choice := delta.Choices[0]
		if fc := choice.Delta.FunctionCall; fc != nil {
			if !push(CompletionChunk{Call: &CallFragment{Name: fc.Name, Arguments: fc.Arguments}}) {
				return
			}
		} else if choice.Delta.Content != nil {
			if !push(CompletionChunk{Content: *choice.Delta.Content}) {
				return
			}
		}
		if choice.FinishReason == "function_call" {
			if !push(CompletionChunk{CallDone: true}) {
				return
			}
		}
	}
	if err := scanner.Err(); err != nil {
		push(CompletionChunk{Err: fmt.Errorf("read stream: %w", err)})
	}
}
