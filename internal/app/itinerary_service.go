package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"tripcraft/internal/ai"
	"tripcraft/internal/model"
	"tripcraft/internal/repository"
)

var ErrAIUnavailable = errors.New("ai provider is not configured")

// AIProvider is the generative backend. GenerateJSON returns a validated
// JSON document; StreamChat delivers chunks through onChunk and returns the
// full reply.
type AIProvider interface {
	GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error)
	StreamChat(ctx context.Context, system string, history []ai.ChatMessage, message string, onChunk func(chunk string) error) (string, error)
}

// SavedItineraryCache caches a user's saved-itinerary listing. A nil cache
// disables caching entirely.
type SavedItineraryCache interface {
	Get(ctx context.Context, userID uint) ([]SavedItinerary, bool, error)
	Set(ctx context.Context, userID uint, items []SavedItinerary) error
	Delete(ctx context.Context, userID uint) error
}

type ItineraryService struct {
	itineraryRepo *repository.ItineraryRepository
	provider      AIProvider
	cache         SavedItineraryCache
}

type GenerateInput struct {
	Destination string
	StartDate   string
	EndDate     string
	Budget      string
	TravelStyle string
}

type SaveInput struct {
	UserID        uint
	Destination   string
	StartDate     string
	EndDate       string
	Budget        string
	TravelStyle   string
	ItineraryJSON json.RawMessage
}

// SavedItinerary is the listing shape: the stored payload is inlined as a
// JSON object rather than a string.
type SavedItinerary struct {
	ID            uint            `json:"id"`
	Destination   string          `json:"destination"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Budget        string          `json:"budget"`
	TravelStyle   string          `json:"travel_style"`
	ItineraryJSON json.RawMessage `json:"itinerary_json"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewItineraryService(
	itineraryRepo *repository.ItineraryRepository,
	provider AIProvider,
	cache SavedItineraryCache,
) *ItineraryService {
	return &ItineraryService{
		itineraryRepo: itineraryRepo,
		provider:      provider,
		cache:         cache,
	}
}

// Generate asks the model for a day-by-day plan in JSON mode. The document
// is passed through unvalidated beyond being well-formed JSON.
func (s *ItineraryService) Generate(ctx context.Context, input GenerateInput) (json.RawMessage, error) {
	if s.provider == nil {
		return nil, ErrAIUnavailable
	}
	return s.provider.GenerateJSON(ctx, buildItineraryPrompt(input))
}

func (s *ItineraryService) Save(input SaveInput) (uint, error) {
	if input.UserID == 0 {
		return 0, ErrInvalidInput
	}

	itinerary := &model.Itinerary{
		UserID:        input.UserID,
		Destination:   input.Destination,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Budget:        input.Budget,
		TravelStyle:   input.TravelStyle,
		ItineraryJSON: string(input.ItineraryJSON),
		CreatedAt:     time.Now(),
	}
	if err := s.itineraryRepo.Create(itinerary); err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(context.Background(), input.UserID); err != nil {
			log.Printf("invalidate saved-itinerary cache failed: %v", err)
		}
	}
	return itinerary.ID, nil
}

func (s *ItineraryService) ListSaved(ctx context.Context, userID uint) ([]SavedItinerary, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	if s.cache != nil {
		if cached, hit, err := s.cache.Get(ctx, userID); err == nil && hit {
			return cached, nil
		}
	}

	records, err := s.itineraryRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	items := make([]SavedItinerary, 0, len(records))
	for _, record := range records {
		items = append(items, SavedItinerary{
			ID:            record.ID,
			Destination:   record.Destination,
			StartDate:     record.StartDate,
			EndDate:       record.EndDate,
			Budget:        record.Budget,
			TravelStyle:   record.TravelStyle,
			ItineraryJSON: inlinePayload(record.ItineraryJSON),
			CreatedAt:     record.CreatedAt,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, items); err != nil {
			log.Printf("fill saved-itinerary cache failed: %v", err)
		}
	}
	return items, nil
}

// inlinePayload round-trips the stored text as a raw JSON value. Payloads
// that are not valid JSON are re-encoded as a JSON string so the listing
// never produces a broken document.
func inlinePayload(stored string) json.RawMessage {
	if json.Valid([]byte(stored)) {
		return json.RawMessage(stored)
	}
	quoted, err := json.Marshal(stored)
	if err != nil {
		return json.RawMessage(`null`)
	}
	return quoted
}

func buildItineraryPrompt(input GenerateInput) string {
	return fmt.Sprintf(`Generate a detailed day-by-day travel itinerary for a trip to %s.
Dates: %s to %s.
Budget: %s.
Travel Style: %s.

Output strictly in JSON format with the following structure:
{
  "destination": "%s",
  "itinerary": {
    "day1": {
      "title": "Day 1 Title",
      "date": "YYYY-MM-DD",
      "morning": { "activity": "...", "description": "...", "cost": "...", "type": "food/travel/activity" },
      "afternoon": { "activity": "...", "description": "...", "cost": "...", "type": "food/travel/activity" },
      "evening": { "activity": "...", "description": "...", "cost": "...", "type": "food/travel/activity" }
    },
    ...
  }
}`,
		input.Destination,
		input.StartDate,
		input.EndDate,
		input.Budget,
		input.TravelStyle,
		input.Destination,
	)
}
