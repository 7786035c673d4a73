package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

// AudienceSegment stores an audience definition as opaque JSON.
type AudienceSegment struct {
	Slug       string         `db:"slug" json:"slug"`
	Nome       string         `db:"nome" json:"nome"`
	Definition types.JSONText `db:"definition" json:"definition"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

type AudienceStore struct {
	db *sqlx.DB
}

func (as *AudienceStore) List(ctx context.Context) ([]AudienceSegment, error) {
	out := []AudienceSegment{}
	if err := as.db.SelectContext(ctx, &out, `SELECT slug, nome, definition, updated_at FROM audience_segments ORDER BY nome`); err != nil {
		return nil, fmt.Errorf("failed to list audiences: %w", err)
	}
	return out, nil
}

func (as *AudienceStore) Upsert(ctx context.Context, segment *AudienceSegment) error {
	if len(segment.Definition) == 0 {
		segment.Definition = types.JSONText(`{}`)
	}

	query := `INSERT INTO audience_segments (slug, nome, definition)
	VALUES (:slug, :nome, :definition)
	ON CONFLICT (slug) DO UPDATE SET
		nome = EXCLUDED.nome,
		definition = EXCLUDED.definition,
		updated_at = now()
	RETURNING updated_at`

	if err := namedReturning(ctx, as.db, query, segment, &segment.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert audience %s: %w", segment.Slug, err)
	}
	return nil
}
