package model

import "github.com/google/uuid"

// SignUpRequest carries the registration form.
type SignUpRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SignUpResult reports a completed registration. A failed verification
// mail does not fail the registration; it is reported here instead.
type SignUpResult struct {
	UserID            uuid.UUID
	VerificationSent  bool
	VerificationError string
}

// Session is returned by a successful login.
type Session struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
	FirstName    string
	LastName     string
	Tasks        []Task
}
