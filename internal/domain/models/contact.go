package models

import "time"

// ContactMessage is a stored contact-form submission. Delivery (email or
// otherwise) happens out of band; this service only persists it.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
