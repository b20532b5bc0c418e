package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tripcraft/internal/ai"
	"tripcraft/internal/model"
)

var ErrMessageEmpty = errors.New("message content is empty")

const travelSystemInstruction = `You are an expert AI Travel Planner.
When asked to plan a trip, generate a detailed day-by-day itinerary.

CRITICAL: When generating an itinerary, you MUST output valid JSON within markdown code blocks (` + "```json ... ```" + `).
The JSON structure must be:
{
  "destination": "City, Country",
  "itinerary": {
    "day1": {
      "title": "Theme of the day",
      "morning": { "activity": "...", "description": "...", "cost": "..." },
      "afternoon": { "activity": "...", "description": "...", "cost": "..." },
      "evening": { "activity": "...", "description": "...", "cost": "..." }
    },
    "day2": ...
  }
}

For general questions, just chat normally.`

// TranscriptPublisher enqueues transcript lines for async persistence.
type TranscriptPublisher interface {
	Publish(ctx context.Context, msg model.ChatMessage) error
}

type ChatService struct {
	provider  AIProvider
	publisher TranscriptPublisher
}

type HistoryItem struct {
	Role    string
	Content string
}

type StreamChatInput struct {
	Message string
	History []HistoryItem
}

func NewChatService(provider AIProvider, publisher TranscriptPublisher) *ChatService {
	return &ChatService{
		provider:  provider,
		publisher: publisher,
	}
}

// StreamChat forwards the conversation to the model and streams the reply
// chunk by chunk. Transcript persistence is best-effort: a broker failure
// never fails the chat.
func (s *ChatService) StreamChat(ctx context.Context, input StreamChatInput, onChunk func(chunk string) error) (string, error) {
	if s.provider == nil {
		return "", ErrAIUnavailable
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return "", ErrMessageEmpty
	}

	history := make([]ai.ChatMessage, 0, len(input.History))
	for _, item := range input.History {
		if item.Role == "system" {
			continue
		}
		role := "model"
		if item.Role == "user" {
			role = "user"
		}
		history = append(history, ai.ChatMessage{Role: role, Content: item.Content})
	}

	s.persistTranscript(model.ChatMessage{Role: "user", Content: message, CreatedAt: time.Now()})

	full, err := s.provider.StreamChat(ctx, travelSystemInstruction, history, message, onChunk)
	if err != nil {
		return "", err
	}

	s.persistTranscript(model.ChatMessage{Role: "model", Content: full, CreatedAt: time.Now()})
	return full, nil
}

func (s *ChatService) persistTranscript(msg model.ChatMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.Background(), msg); err != nil {
		log.Printf("publish chat transcript failed: %v", err)
	}
}
