package models

import "time"

type Student struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Year             int       `json:"year"`
	Status           string    `json:"status,omitempty"`
	RegistrationDate time.Time `json:"registration_date"`
}

type StudentRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Year     int    `json:"year" binding:"required,min=1,max=5"`
}

type StudentLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
