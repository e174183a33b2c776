// model/item.go
package model

import "time"

// DateRange is a closed [From, To] availability or rental window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type Item struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	PricePerWeek float64     `json:"price_per_week"`
	Owner        User        `json:"owner"`
	Images       []string    `json:"images,omitempty"`
	Availability []DateRange `json:"availability,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// CreateItemReq represents the listing form fields; images travel as
// multipart file parts alongside it.
type CreateItemReq struct {
	Title        string      `json:"title" validate:"required,min=3,max=80"`
	Description  string      `json:"description" validate:"max=2000"`
	Category     string      `json:"category" validate:"required"`
	PricePerWeek float64     `json:"price_per_week" validate:"required,gt=0"`
	Availability []DateRange `json:"availability,omitempty"`
}

type ItemFilter struct {
	Query    string
	Category string
}
