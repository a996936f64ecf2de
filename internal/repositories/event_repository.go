package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ices/internal/models"
)

type EventRepository interface {
	Create(event *models.Event) error
	List() ([]*models.Event, error)
	ListUpcoming(now time.Time) ([]*models.Event, error)
	RegisterStudent(studentID int, eventName string) (int, error)
	ListRegistrationsByStudent(studentID int) ([]*models.EventRegistration, error)
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(event *models.Event) error {
	const q = `
		INSERT INTO events (title, description, event_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.DB.QueryRow(q, event.Title, event.Description, event.Date).Scan(&event.ID); err != nil {
		return fmt.Errorf("event create: %w", err)
	}
	return nil
}

func (r *eventRepository) List() ([]*models.Event, error) {
	const q = `
		SELECT id, title, description, event_date FROM events ORDER BY event_date
	`
	return r.queryEvents(q)
}

func (r *eventRepository) ListUpcoming(now time.Time) ([]*models.Event, error) {
	const q = `
		SELECT id, title, description, event_date
		FROM events
		WHERE event_date >= $1
		ORDER BY event_date ASC
	`
	return r.queryEvents(q, now)
}

func (r *eventRepository) queryEvents(q string, args ...any) ([]*models.Event, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("event list: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date); err != nil {
			return nil, fmt.Errorf("event list scan: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (r *eventRepository) RegisterStudent(studentID int, eventName string) (int, error) {
	const q = `
		INSERT INTO event_registrations (student_id, event_name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int
	if err := r.DB.QueryRow(q, studentID, eventName, time.Now()).Scan(&id); err != nil {
		return 0, fmt.Errorf("event registration create: %w", err)
	}
	return id, nil
}

func (r *eventRepository) ListRegistrationsByStudent(studentID int) ([]*models.EventRegistration, error) {
	const q = `
		SELECT er.id, er.student_id, er.event_name, er.created_at, s.name
		FROM event_registrations er
		JOIN students s ON er.student_id = s.id
		WHERE er.student_id = $1
		ORDER BY er.created_at DESC
	`
	rows, err := r.DB.Query(q, studentID)
	if err != nil {
		return nil, fmt.Errorf("event registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.EventRegistration
	for rows.Next() {
		var reg models.EventRegistration
		if err := rows.Scan(&reg.ID, &reg.StudentID, &reg.EventName, &reg.CreatedAt, &reg.StudentName); err != nil {
			return nil, fmt.Errorf("event registrations scan: %w", err)
		}
		regs = append(regs, &reg)
	}
	return regs, rows.Err()
}
