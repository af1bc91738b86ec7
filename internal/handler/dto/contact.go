// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/folio/folio/internal/model"
)

// CreateContactRequest is the body of POST /api/contact.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ToInput converts the request into service input.
func (r CreateContactRequest) ToInput() model.ContactInput {
	return model.ContactInput{
		Name:    r.Name,
		Email:   r.Email,
		Message: r.Message,
	}
}

// ContactSummary is the acknowledgement returned after a submission.
type ContactSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactResponse is a stored message in API responses.
type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateContactResponse is the 201 body of POST /api/contact.
type CreateContactResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    ContactSummary `json:"data"`
}

// ContactListResponse is the body of GET /api/contact.
type ContactListResponse struct {
	Success bool              `json:"success"`
	Data    []ContactResponse `json:"data"`
	Count   int               `json:"count"`
}

// ContactDetailResponse is the body of GET /api/contact/{id}.
type ContactDetailResponse struct {
	Success bool            `json:"success"`
	Data    ContactResponse `json:"data"`
}

// StatusResponse is a success flag with a human-readable message.
type StatusResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToContactSummary converts a stored message into its acknowledgement.
func ToContactSummary(m *model.ContactMessage) ContactSummary {
	return ContactSummary{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

// ToContactResponse converts a stored message for API output.
func ToContactResponse(m *model.ContactMessage) ContactResponse {
	return ContactResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

// ToContactListResponse converts a slice of messages, keeping their order.
func ToContactListResponse(msgs []*model.ContactMessage) ContactListResponse {
	data := make([]ContactResponse, len(msgs))
	for i, m := range msgs {
		data[i] = ToContactResponse(m)
	}
	return ContactListResponse{
		Success: true,
		Data:    data,
		Count:   len(data),
	}
}
