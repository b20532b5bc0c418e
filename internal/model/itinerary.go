package model

import "time"

// Itinerary holds one saved trip plan. ItineraryJSON is the model output
// stored verbatim as text and round-tripped back to the client unparsed.
type Itinerary struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Destination   string    `gorm:"size:255" json:"destination"`
	StartDate     string    `gorm:"size:64" json:"start_date"`
	EndDate       string    `gorm:"size:64" json:"end_date"`
	Budget        string    `gorm:"size:64" json:"budget"`
	TravelStyle   string    `gorm:"size:128" json:"travel_style"`
	ItineraryJSON string    `gorm:"type:text" json:"itinerary_json"`
	CreatedAt     time.Time `json:"created_at"`
}
