package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is the default model for chat and extraction.
const DefaultModel = "gpt-4o-mini"

// OpenAIClient implements the Client interface against any OpenAI-compatible
// endpoint, which covers the hosted API as well as local gateways.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a client for the given endpoint. An empty baseURL
// targets the hosted OpenAI API.
func NewOpenAIClient(model, baseURL, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			openaiMessages[i] = openai.SystemMessage(msg.Content)
		case "assistant":
			openaiMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			openaiMessages[i] = openai.UserMessage(msg.Content)
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: openaiMessages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *OpenAIClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}

	// The model may wrap its answer in markdown code fences.
	jsonContent := extractJSON(content)

	if err := json.Unmarshal([]byte(jsonContent), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}

	return nil
}

// extractJSON attempts to extract JSON from a string that may contain
// markdown formatting.
func extractJSON(s string) string {
	for _, fence := range []string{"```json", "```"} {
		if body, ok := fencedBody(s, fence); ok {
			return body
		}
	}

	// Fall back to the first balanced brace or bracket run.
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					return s[i : j+1]
				}
			}
		}
	}

	return s
}

// fencedBody extracts the content between an opening fence marker and the
// next closing triple backtick.
func fencedBody(s, fence string) (string, bool) {
	idx := strings.Index(s, fence)
	if idx == -1 {
		return "", false
	}
	start := idx + len(fence)
	for start < len(s) && (s[start] == '\n' || s[start] == '\r') {
		start++
	}
	end := strings.Index(s[start:], "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimRight(s[start:start+end], "\r\n"), true
}
