package model

import "time"

type Review struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	Reviewer      User      `json:"reviewer"`
	Reviewee      User      `json:"reviewee"`
	Role          string    `json:"role"` // "lender" or "borrower"
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateReviewReq represents the review form payload
type CreateReviewReq struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment" validate:"max=500"`
}

// CanReview reflects the server's once-per-role eligibility check.
type CanReview struct {
	CanReview bool   `json:"can_review"`
	Role      string `json:"role,omitempty"`
}
