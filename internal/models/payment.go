package models

import "time"

type Payment struct {
	ID           int       `json:"id"`
	StudentID    int       `json:"student_id"`
	Purpose      string    `json:"purpose"`
	Amount       int       `json:"amount"`
	Method       string    `json:"method"`
	Date         time.Time `json:"date"`
	StudentName  string    `json:"student_name,omitempty"`
	StudentEmail string    `json:"student_email,omitempty"`
}

type PaymentSummary struct {
	Total int `json:"total"`
	Count int `json:"count"`
}
