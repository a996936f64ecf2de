package services

import (
	"strings"
	"time"

	"ices/internal/models"
	"ices/internal/repositories"
)

type EventService interface {
	Create(title, description string, date time.Time) (*models.Event, error)
	List() ([]*models.Event, error)
	ListUpcoming() ([]*models.Event, error)
	RegisterStudent(studentID int, eventName string) (int, error)
	RegistrationsByStudent(studentID int) ([]*models.EventRegistration, error)
}

type eventService struct {
	events   repositories.EventRepository
	students repositories.StudentRepository
}

func NewEventService(events repositories.EventRepository, students repositories.StudentRepository) EventService {
	return &eventService{events: events, students: students}
}

func (s *eventService) Create(title, description string, date time.Time) (*models.Event, error) {
	if strings.TrimSpace(title) == "" || date.IsZero() {
		return nil, ErrValidation
	}
	event := &models.Event{Title: strings.TrimSpace(title), Description: description, Date: date}
	if err := s.events.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) List() ([]*models.Event, error) {
	return s.events.List()
}

func (s *eventService) ListUpcoming() ([]*models.Event, error) {
	return s.events.ListUpcoming(time.Now())
}

func (s *eventService) RegisterStudent(studentID int, eventName string) (int, error) {
	if strings.TrimSpace(eventName) == "" {
		return 0, ErrValidation
	}
	student, err := s.students.GetByID(studentID)
	if err != nil {
		return 0, err
	}
	if student == nil {
		return 0, ErrStudentNotFound
	}
	return s.events.RegisterStudent(studentID, eventName)
}

func (s *eventService) RegistrationsByStudent(studentID int) ([]*models.EventRegistration, error) {
	return s.events.ListRegistrationsByStudent(studentID)
}
