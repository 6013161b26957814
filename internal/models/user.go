package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                    uuid.UUID `json:"id" db:"id"`
	Fullname              string    `json:"fullname" db:"fullname"`
	Email                 string    `json:"email" db:"email"`
	PhoneNumber           string    `json:"phone_number" db:"phone_number"`
	ConsentToTermsDataUse bool      `json:"consent_to_terms_data_use" db:"consent_to_terms_data_use"`
	PreferredLanguage     *string   `json:"preferred_language,omitempty" db:"preferred_language"`
	Country               *string   `json:"country,omitempty" db:"country"`
	PasswordHash          string    `json:"-" db:"password_hash"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the profile shape returned on login, without credentials.
type UserSummary struct {
	ID                    uuid.UUID `json:"id"`
	Email                 string    `json:"email"`
	Fullname              string    `json:"fullname"`
	PhoneNumber           string    `json:"phone_number"`
	ConsentToTermsDataUse bool      `json:"consent_to_terms_data_use"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:                    u.ID,
		Email:                 u.Email,
		Fullname:              u.Fullname,
		PhoneNumber:           u.PhoneNumber,
		ConsentToTermsDataUse: u.ConsentToTermsDataUse,
	}
}
