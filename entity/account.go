package entity

import (
	"net/http"
	"time"

	"licensedesk/lib/validate"
)

// Account is a pooled credential handed out by the bot. The password never leaves the backend.
type Account struct {
	ID             string    `json:"id" bson:"id"`
	Type           string    `json:"type" bson:"type"`
	Username       string    `json:"username" bson:"username"`
	Password       string    `json:"-" bson:"password"`
	Email          string    `json:"email,omitempty" bson:"email,omitempty"`
	AdditionalInfo string    `json:"additional_info,omitempty" bson:"additional_info,omitempty"`
	IsAvailable    bool      `json:"is_available" bson:"is_available"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

type AccountCreate struct {
	Type           string `json:"type" validate:"required"`
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	AdditionalInfo string `json:"additional_info" validate:"omitempty"`
}

func (a *AccountCreate) Bind(_ *http.Request) error {
	return validate.Struct(a)
}
