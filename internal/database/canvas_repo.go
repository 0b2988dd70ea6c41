package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/models"
)

var _ canvas.Store = (*CanvasRepository)(nil)

type CanvasRepository struct {
	db *DB
}

func NewCanvasRepository(db *DB) *CanvasRepository {
	return &CanvasRepository{db: db}
}

const canvasColumns = `id, client_id, type, title, description, data, metadata, status, published_at, created_at, updated_at`

// Create inserts a new canvas into the database
func (r *CanvasRepository) Create(ctx context.Context, c *models.Canvas) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	dataJSON, metadataJSON, err := marshalCanvas(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO canvases (` + canvasColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		c.ID,
		c.ClientID,
		c.Type,
		c.Title,
		c.Description,
		dataJSON,
		metadataJSON,
		c.Status,
		c.PublishedAt,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create canvas: %w", err)
	}

	return nil
}

// GetByID retrieves a canvas by its ID
func (r *CanvasRepository) GetByID(ctx context.Context, id string) (*models.Canvas, error) {
	query := `SELECT ` + canvasColumns + ` FROM canvases WHERE id = $1`

	c, err := scanCanvas(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCanvasNotFound
		}
		return nil, fmt.Errorf("failed to get canvas: %w", err)
	}

	return c, nil
}

// ListByClient returns every canvas of a client, newest first
func (r *CanvasRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Canvas, error) {
	query := `
		SELECT ` + canvasColumns + `
		FROM canvases
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query canvases: %w", err)
	}
	defer rows.Close()

	canvases := []*models.Canvas{}
	for rows.Next() {
		c, err := scanCanvas(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan canvas: %w", err)
		}
		canvases = append(canvases, c)
	}

	return canvases, rows.Err()
}

// FindLatest returns the most recently created canvas of a type for a client
func (r *CanvasRepository) FindLatest(ctx context.Context, clientID string, canvasType models.CanvasType) (*models.Canvas, error) {
	query := `
		SELECT ` + canvasColumns + `
		FROM canvases
		WHERE client_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	c, err := scanCanvas(r.db.Pool.QueryRow(ctx, query, clientID, canvasType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCanvasNotFound
		}
		return nil, fmt.Errorf("failed to find latest canvas: %w", err)
	}

	return c, nil
}

// Update updates an existing canvas
func (r *CanvasRepository) Update(ctx context.Context, c *models.Canvas) error {
	dataJSON, metadataJSON, err := marshalCanvas(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE canvases
		SET title = $2, description = $3, data = $4, metadata = $5,
		    status = $6, published_at = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query,
		c.ID,
		c.Title,
		c.Description,
		dataJSON,
		metadataJSON,
		c.Status,
		c.PublishedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update canvas: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrCanvasNotFound
	}

	return nil
}

func marshalCanvas(c *models.Canvas) ([]byte, []byte, error) {
	dataJSON, err := json.Marshal(c.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal canvas data: %w", err)
	}
	metadataJSON, err := json.Marshal(c.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal canvas metadata: %w", err)
	}
	return dataJSON, metadataJSON, nil
}

func scanCanvas(row pgx.Row) (*models.Canvas, error) {
	c := &models.Canvas{}
	var dataJSON, metadataJSON []byte

	err := row.Scan(
		&c.ID,
		&c.ClientID,
		&c.Type,
		&c.Title,
		&c.Description,
		&dataJSON,
		&metadataJSON,
		&c.Status,
		&c.PublishedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &c.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal canvas data: %w", err)
		}
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal canvas metadata: %w", err)
		}
	}

	return c, nil
}
