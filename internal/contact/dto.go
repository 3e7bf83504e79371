package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/daghlis/gallery-backend/pkg/db/models"
	"github.com/daghlis/gallery-backend/pkg/enums"
)

// SubmitRequest is the payload of the public contact form.
type SubmitRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required,max=5000"`
	Language string `json:"language,omitempty"`
}

// Message is the admin view of a stored contact message.
type Message struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Subject   string         `json:"subject"`
	Message   string         `json:"message"`
	Language  enums.Language `json:"language"`
	CreatedAt time.Time      `json:"created_at"`
}

// MessageList wraps a page of messages plus the next cursor.
type MessageList struct {
	Messages   []Message `json:"messages"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func messageFromModel(m models.ContactMessage) Message {
	return Message{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		Language:  m.Language,
		CreatedAt: m.CreatedAt,
	}
}
