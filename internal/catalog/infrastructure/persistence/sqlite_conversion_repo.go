package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/convrisk/internal/catalog/domain"
	"github.com/felixgeelhaar/convrisk/internal/shared/infrastructure/database"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS conversions (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL UNIQUE,
	from_rep TEXT NOT NULL,
	to_rep TEXT NOT NULL,
	factor TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteConversionRepository implements domain.Repository using SQLite.
type SQLiteConversionRepository struct {
	conn database.Connection
}

// NewSQLiteConversionRepository creates a new SQLite conversion repository
// and ensures the schema exists.
func NewSQLiteConversionRepository(ctx context.Context, conn database.Connection) (*SQLiteConversionRepository, error) {
	if _, err := conn.Exec(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create conversions table: %w", err)
	}
	return &SQLiteConversionRepository{conn: conn}, nil
}

// Save persists a conversion, updating it if the ID already exists.
func (r *SQLiteConversionRepository) Save(ctx context.Context, conv *domain.Conversion) error {
	query := `
		INSERT INTO conversions (id, label, from_rep, to_rep, factor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			label = excluded.label,
			from_rep = excluded.from_rep,
			to_rep = excluded.to_rep,
			factor = excluded.factor,
			updated_at = excluded.updated_at
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		conv.ID().String(),
		conv.Label(),
		conv.From().String(),
		conv.To().String(),
		conv.Factor().String(),
		conv.CreatedAt().UTC().Format(time.RFC3339Nano),
		conv.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// FindByID retrieves a conversion by its ID.
func (r *SQLiteConversionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Conversion, error) {
	query := `
		SELECT id, label, from_rep, to_rep, factor, created_at, updated_at
		FROM conversions WHERE id = ?
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return scanSQLiteConversion(exec.QueryRow(ctx, query, id.String()))
}

// FindByLabel retrieves a conversion by its label.
func (r *SQLiteConversionRepository) FindByLabel(ctx context.Context, label string) (*domain.Conversion, error) {
	query := `
		SELECT id, label, from_rep, to_rep, factor, created_at, updated_at
		FROM conversions WHERE label = ?
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return scanSQLiteConversion(exec.QueryRow(ctx, query, label))
}

// List returns all conversions ordered by label.
func (r *SQLiteConversionRepository) List(ctx context.Context) ([]*domain.Conversion, error) {
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
		conv, err := scanSQLiteConversion(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// Delete removes a conversion from the catalog.
func (r *SQLiteConversionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM conversions WHERE id = ?`, id.String())
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

func scanSQLiteConversion(row database.Row) (*domain.Conversion, error) {
	var (
		id, label, fromRep, toRep, factor string
		createdAt, updatedAt              string
	)
	if err := row.Scan(&id, &label, &fromRep, &toRep, &factor, &createdAt, &updatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrConversionNotFound
		}
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid conversion id %q: %w", id, err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}

	return domain.RehydrateConversion(parsedID, label, fromRep, toRep, factor, created, updated)
}
