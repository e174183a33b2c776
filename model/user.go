package model

import "time"

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type User struct {
	ID             string    `json:"id"`
	Nickname       string    `json:"nickname,omitempty"`
	Email          string    `json:"email"`
	LenderRating   Rating    `json:"lender_rating"`
	BorrowerRating Rating    `json:"borrower_rating"`
	IsPremium      bool      `json:"is_premium"`
	CreatedAt      time.Time `json:"created_at"`
}

// DisplayName prefers the nickname and falls back to the email.
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Email
}

// LoginReq represents login payload
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileReq represents the editable profile fields
type UpdateProfileReq struct {
	Nickname string `json:"nickname" validate:"omitempty,min=2,max=40"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}
