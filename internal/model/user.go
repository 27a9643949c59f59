package model

import "time"

type User struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	CPF             string    `json:"cpf"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	PasswordHash    []byte    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}
