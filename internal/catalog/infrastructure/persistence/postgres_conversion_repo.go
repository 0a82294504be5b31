package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/convrisk/internal/catalog/domain"
	"github.com/felixgeelhaar/convrisk/internal/shared/infrastructure/database"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS conversions (
	id UUID PRIMARY KEY,
	label TEXT NOT NULL UNIQUE,
	from_rep TEXT NOT NULL,
	to_rep TEXT NOT NULL,
	factor TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresConversionRepository implements domain.Repository using PostgreSQL.
type PostgresConversionRepository struct {
	conn database.Connection
}

// NewPostgresConversionRepository creates a new PostgreSQL conversion
// repository and ensures the schema exists.
func NewPostgresConversionRepository(ctx context.Context, conn database.Connection) (*PostgresConversionRepository, error) {
	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create conversions table: %w", err)
	}
	return &PostgresConversionRepository{conn: conn}, nil
}

// Save persists a conversion, updating it if the ID already exists.
func (r *PostgresConversionRepository) Save(ctx context.Context, conv *domain.Conversion) error {
	query := `
		INSERT INTO conversions (id, label, from_rep, to_rep, factor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			from_rep = EXCLUDED.from_rep,
			to_rep = EXCLUDED.to_rep,
			factor = EXCLUDED.factor,
			updated_at = EXCLUDED.updated_at
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		conv.ID(),
		conv.Label(),
		conv.From().String(),
		conv.To().String(),
		conv.Factor().String(),
		conv.CreatedAt().UTC(),
		conv.UpdatedAt().UTC(),
	)
	return err
}

// FindByID retrieves a conversion by its ID.
func (r *PostgresConversionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Conversion, error) {
	query := `
		SELECT id, label, from_rep, to_rep, factor, created_at, updated_at
		FROM conversions WHERE id = $1
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return scanPostgresConversion(exec.QueryRow(ctx, query, id))
}

// FindByLabel retrieves a conversion by its label.
func (r *PostgresConversionRepository) FindByLabel(ctx context.Context, label string) (*domain.Conversion, error) {
	query := `
		SELECT id, label, from_rep, to_rep, factor, created_at, updated_at
		FROM conversions WHERE label = $1
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return scanPostgresConversion(exec.QueryRow(ctx, query, label))
}

// List returns all conversions ordered by label.
func (r *PostgresConversionRepository) List(ctx context.Context) ([]*domain.Conversion, error) {
	query := `
		SELECT id, label, from_rep, to_rep, factor, created_at, updated_at
		FROM conversions ORDER BY label
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []*domain.Conversion
	for rows.Next() {
		conv, err := scanPostgresConversion(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// Delete removes a conversion from the catalog.
func (r *PostgresConversionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM conversions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConversionNotFound
	}
	return nil
}

func scanPostgresConversion(row database.Row) (*domain.Conversion, error) {
	var (
		id                            uuid.UUID
		label, fromRep, toRep, factor string
		createdAt, updatedAt          time.Time
	)
	if err := row.Scan(&id, &label, &fromRep, &toRep, &factor, &createdAt, &updatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrConversionNotFound
		}
		return nil, err
	}

	return domain.RehydrateConversion(id, label, fromRep, toRep, factor, createdAt, updatedAt)
}
