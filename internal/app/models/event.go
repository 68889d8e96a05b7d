package models

import "time"

// EventType classifies campus events
type EventType string

const (
	EventWorkshop  EventType = "WORKSHOP"
	EventFest      EventType = "FEST"
	EventTalk      EventType = "TALK"
	EventHackathon EventType = "HACKATHON"
)

// Event is a campus event published by an admin
type Event struct {
	ID               string    `json:"id" db:"id"`
	OrganizerID      string    `json:"organizerId" db:"organizer_id"`
	Title            string    `json:"title" db:"title" example:"Intro to Rust"`
	Description      string    `json:"description" db:"description"`
	Date             time.Time `json:"date" db:"event_date"`
	Time             string    `json:"time" db:"event_time" example:"17:30"`
	Venue            string    `json:"venue" db:"venue" example:"LT-2"`
	Club             string    `json:"club" db:"club" example:"Coding Club"`
	ContactNumber    string    `json:"contactNumber" db:"contact_number"`
	EntryFee         string    `json:"entryFee" db:"entry_fee" example:"Free"`
	Type             EventType `json:"type" db:"type" example:"WORKSHOP"`
	RegistrationLink *string   `json:"registrationLink,omitempty" db:"registration_link"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}
