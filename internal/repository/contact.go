package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/folio/folio/internal/model"
	"github.com/jackc/pgx/v5"
)

// CreateContact inserts a contact message. The full record is stored as a
// JSONB document; id and created_at are duplicated into columns for lookup
// and ordering.
func (r *Repository) CreateContact(ctx context.Context, msg *model.ContactMessage) error {
	doc, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode contact: %w", err)
	}

	query := `
		INSERT INTO contact_messages (id, document, created_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.pool.Exec(ctx, query, msg.ID, doc, msg.CreatedAt); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// ListContacts returns contact messages newest-first, ties broken by id.
func (r *Repository) ListContacts(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	query := `
		SELECT document
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, opts.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*model.ContactMessage, 0)
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, nil
}

// GetContactByID retrieves a contact message by id.
func (r *Repository) GetContactByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	query := `
		SELECT document
		FROM contact_messages
		WHERE id = $1
	`

	msg, err := scanContact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return msg, nil
}

func scanContact(row pgx.Row) (*model.ContactMessage, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}

	var msg model.ContactMessage
	if err := json.Unmarshal(doc, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode contact: %w", err)
	}
	return &msg, nil
}
