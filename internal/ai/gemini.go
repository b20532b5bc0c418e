package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient talks to the Gemini API. Itinerary generation runs in JSON
// mode; chat streams text chunks.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client failed: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty gemini response")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected gemini response part type")
	}
	return cleanJSON(string(text))
}

func (c *GeminiClient) StreamChat(
	ctx context.Context,
	system string,
	history []ChatMessage,
	message string,
	onChunk func(chunk string) error,
) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	chat := model.StartChat()
	chat.History = make([]*genai.Content, 0, len(history))
	for _, item := range history {
		role := "model"
		if item.Role == "user" {
			role = "user"
		}
		chat.History = append(chat.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(item.Content)},
		})
	}

	var full strings.Builder
	iter := chat.SendMessageStream(ctx, genai.Text(message))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("gemini stream failed: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			text, ok := part.(genai.Text)
			if !ok || text == "" {
				continue
			}
			full.WriteString(string(text))
			if err := onChunk(string(text)); err != nil {
				return "", err
			}
		}
	}
	return full.String(), nil
}
