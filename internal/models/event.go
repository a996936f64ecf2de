package models

import "time"

type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

type EventRegistration struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	EventName   string    `json:"event_name"`
	StudentName string    `json:"student_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
