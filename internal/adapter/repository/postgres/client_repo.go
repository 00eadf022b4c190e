package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// GetByName retrieves a client by exact name within the transaction.
func (r *ClientRepository) GetByName(ctx context.Context, tx usecase.Transaction, name string) (*domain.Client, error) {
	row := txQueryer(tx).QueryRow(ctx, `
		SELECT id, name, address, phone, photo_url, id_photo_url, created_at, updated_at
		FROM clients
		WHERE name = $1`, name)

	var c domain.Client
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.PhotoURL, &c.IDPhotoURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}

		return nil, err
	}

	return &c, nil
}

// Create inserts a new client inside the transaction.
func (r *ClientRepository) Create(ctx context.Context, tx usecase.Transaction, client *domain.Client) error {
	_, err := txQueryer(tx).Exec(ctx, `
		INSERT INTO clients (id, name, address, phone, photo_url, id_photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		client.ID, client.Name, client.Address, client.Phone,
		client.PhotoURL, client.IDPhotoURL,
		timeToPgTimestamptz(client.CreatedAt), timeToPgTimestamptz(client.UpdatedAt))

	return err
}

// UpdatePhotos overwrites both photo references, empty values included.
func (r *ClientRepository) UpdatePhotos(ctx context.Context, tx usecase.Transaction, id, photoURL, idPhotoURL string, updatedAt time.Time) error {
	tag, err := txQueryer(tx).Exec(ctx, `
		UPDATE clients SET photo_url = $2, id_photo_url = $3, updated_at = $4
		WHERE id = $1`,
		id, photoURL, idPhotoURL, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}
