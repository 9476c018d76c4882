package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is a guestbook message.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// AddEntry stores a new message and returns it with its id and avatar set.
func (d *DB) AddEntry(ctx context.Context, name, message string, at time.Time) (Entry, error) {
	e := Entry{
		ID:        uuid.NewString(),
		Name:      name,
		Message:   message,
		CreatedAt: at.UTC(),
	}
	e.Avatar = "https://i.pravatar.cc/150?u=" + e.ID
	if err := d.insertEntry(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (d *DB) insertEntry(ctx context.Context, e Entry) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO guestbook_entries (id, name, message, avatar, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.Name, e.Message, e.Avatar, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert guestbook entry: %w", err)
	}
	return nil
}

// Entries returns up to limit messages, newest first.
func (d *DB) Entries(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, name, message, avatar, created_at
		FROM guestbook_entries
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query guestbook: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Message, &e.Avatar, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan guestbook entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountEntries returns how many messages the guestbook holds.
func (d *DB) CountEntries(ctx context.Context) (int, error) {
	var n int
	if err := d.QueryRowContext(ctx, `SELECT COUNT(*) FROM guestbook_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count guestbook: %w", err)
	}
	return n, nil
}

// DeleteEntry removes a message.
func (d *DB) DeleteEntry(ctx context.Context, id string) error {
	res, err := d.ExecContext(ctx, `DELETE FROM guestbook_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete guestbook entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("guestbook entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// SeedGuestbook adds the two welcome messages to an empty guestbook.
func (d *DB) SeedGuestbook(ctx context.Context, now time.Time) error {
	n, err := d.CountEntries(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	seeds := []Entry{
		{
			ID:        uuid.NewString(),
			Name:      "Sarah Jenkins",
			Message:   "Love the clean architectural feel of this portfolio. Truly artisan-grade work!",
			Avatar:    "https://i.pravatar.cc/150?u=sarah",
			CreatedAt: now.Add(-2 * time.Hour).UTC(),
		},
		{
			ID:        uuid.NewString(),
			Name:      "Marcello Rossi",
			Message:   "The microservices breakdown in the case studies is top-tier. Great job on the documentation.",
			Avatar:    "https://i.pravatar.cc/150?u=marcello",
			CreatedAt: now.Add(-5 * time.Hour).UTC(),
		},
	}
	for _, e := range seeds {
		if err := d.insertEntry(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
