package models

import "time"

var Categories = map[string]bool{
	"furniture":   true,
	"electronics": true,
	"clothing":    true,
	"books":       true,
}

var Conditions = map[string]bool{
	"new":  true,
	"used": true,
}

type Product struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Price          float64   `json:"price"`
	Category       string    `json:"category"`
	Condition      string    `json:"condition"`
	ImageURL       string    `json:"image_url,omitempty"`
	ImageStorageID string    `json:"image_storage_id,omitempty"`
	City           string    `json:"city,omitempty"`
	OwnerID        int       `json:"owner_id"`
	IsApproved     bool      `json:"is_approved"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OwnerSummary is the only owner projection ever exposed on listings.
type OwnerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EnrichedProduct struct {
	Product
	Owner *OwnerSummary `json:"owner"`
}
