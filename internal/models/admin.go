package models

import "time"

type Admin struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegNumber    string    `json:"reg_number"`
	Year         int       `json:"year,omitempty"`
	PasswordHash string    `json:"-"` // never leaves the server
	CreatedAt    time.Time `json:"created_at"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
