package models

import (
	"errors"
	"time"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Date        time.Time   `json:"date"`
	Location    string      `json:"location,omitempty"`
	OrganizerID string      `json:"organizer_id,omitempty"`
	Status      EventStatus `json:"status"`
	Attendees   []string    `json:"attendees"`
	CreatedAt   time.Time   `json:"created_at"`
}

// EventInput is the client-supplied part of an event. Updates replace every
// field; attendees are only changed through registration.
type EventInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Date        time.Time   `json:"date"`
	Location    string      `json:"location,omitempty"`
	OrganizerID string      `json:"organizer_id,omitempty"`
	Status      EventStatus `json:"status,omitempty"`
}
