// model/transaction.go
package model

import "time"

type TransactionStatus string

const (
	StatusRequested     TransactionStatus = "requested"
	StatusAccepted      TransactionStatus = "accepted"
	StatusRejected      TransactionStatus = "rejected"
	StatusRenegotiation TransactionStatus = "renegotiation_requested"
	StatusBorrowed      TransactionStatus = "borrowed"
	StatusReturned      TransactionStatus = "returned"
	StatusCompleted     TransactionStatus = "completed"
	StatusRetracted     TransactionStatus = "retracted"
)

// Terminal reports whether no further transition can leave the status.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusRetracted
}

// Renegotiation is present only while status is renegotiation_requested.
type Renegotiation struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Message string    `json:"message,omitempty"`
}

type Transaction struct {
	ID              string            `json:"id"`
	Lender          User              `json:"lender"`
	Borrower        User              `json:"borrower"`
	Item            Item              `json:"item"`
	Status          TransactionStatus `json:"status"`
	RequestedFrom   time.Time         `json:"requested_from"`
	RequestedTo     time.Time         `json:"requested_to"`
	Renegotiation   *Renegotiation    `json:"renegotiation,omitempty"`
	TotalAmount     float64           `json:"total_amount"`
	Deposit         float64           `json:"deposit"`
	LendingFee      float64           `json:"lending_fee"`
	PremiumDiscount *float64          `json:"premium_discount,omitempty"`
	LenderMessage   string            `json:"lender_message,omitempty"`
	CanReview       bool              `json:"can_review"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TransactionSummary is the priced breakdown shown before payment.
type TransactionSummary struct {
	TransactionID   string   `json:"transaction_id"`
	Days            int      `json:"days"`
	LendingFee      float64  `json:"lending_fee"`
	Deposit         float64  `json:"deposit"`
	PremiumDiscount *float64 `json:"premium_discount,omitempty"`
	TotalAmount     float64  `json:"total_amount"`
}

// RequestTransactionReq opens a borrow request for an item.
type RequestTransactionReq struct {
	ItemID string    `json:"item_id" validate:"required"`
	From   time.Time `json:"from" validate:"required"`
	To     time.Time `json:"to" validate:"required"`
}

// RenegotiateReq proposes a replacement window. Only the endpoints are
// required client-side; everything else is the server's call.
type RenegotiateReq struct {
	From    time.Time `json:"from" validate:"required"`
	To      time.Time `json:"to" validate:"required"`
	Message string    `json:"message,omitempty"`
}

type ReturnCodeReq struct {
	Code string `json:"code" validate:"required"`
}
