package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhorizon/marketplace/internal/domain"
)

// EventRepository encapsulates catalog persistence. The catalog is
// read-only from the client's perspective; Create serves seeding and
// back-office tooling.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	List(ctx context.Context) ([]domain.Event, error)
	ListByCategory(ctx context.Context, category domain.Category) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, title, artist, image, category, date, time, venue, location,
               price, original_price, seats_left, rating, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (title, artist, image, category, date, time, venue, location, price, original_price, seats_left, rating)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.Title,
		event.Artist,
		event.Image,
		event.Category,
		event.Date,
		event.Time,
		event.Venue,
		event.Location,
		event.Price,
		event.OriginalPrice,
		event.SeatsLeft,
		event.Rating,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	const query = `
        SELECT ` + eventColumns + `
        FROM events ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *eventRepository) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Event, error) {
	const query = `
        SELECT ` + eventColumns + `
        FROM events WHERE category=$1 ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `
        SELECT ` + eventColumns + `
        FROM events WHERE id=$1`

	var event domain.Event
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Artist,
		&event.Image,
		&event.Category,
		&event.Date,
		&event.Time,
		&event.Venue,
		&event.Location,
		&event.Price,
		&event.OriginalPrice,
		&event.SeatsLeft,
		&event.Rating,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	events := make([]domain.Event, 0)
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Artist,
			&event.Image,
			&event.Category,
			&event.Date,
			&event.Time,
			&event.Venue,
			&event.Location,
			&event.Price,
			&event.OriginalPrice,
			&event.SeatsLeft,
			&event.Rating,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
