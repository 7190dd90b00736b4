package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adgen/internal/domain"
)

// VariationRepositoryPG implements domain.VariationRepository using PostgreSQL.
type VariationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewVariationRepository constructs a new variation repository instance.
func NewVariationRepository(pool *pgxpool.Pool) *VariationRepositoryPG {
	return &VariationRepositoryPG{pool: pool}
}

// Insert persists one generated variation row scoped to its owner.
func (r *VariationRepositoryPG) Insert(ctx context.Context, v *domain.ImageVariation) error {
	query := `
INSERT INTO image_variations (id, user_id, session_id, style_name, description, artifact_url, prompt_used, original_image_url, mime, bytes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.pool.Exec(ctx, query,
		v.ID,
		v.UserID,
		v.SessionID,
		v.StyleName,
		v.Description,
		v.ArtifactURL,
		v.PromptUsed,
		v.OriginalImageURL,
		v.MIME,
		v.Bytes,
	)
	return err
}

// ListByUser returns the owner's variations, newest first.
func (r *VariationRepositoryPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.ImageVariation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, session_id, style_name, description, artifact_url, prompt_used, original_image_url, mime, bytes, created_at
FROM image_variations
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3;
`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ImageVariation
	for rows.Next() {
		var v domain.ImageVariation
		if err := rows.Scan(&v.ID, &v.UserID, &v.SessionID, &v.StyleName, &v.Description, &v.ArtifactURL, &v.PromptUsed, &v.OriginalImageURL, &v.MIME, &v.Bytes, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBySession returns every variation produced by one session, in slot
// order of creation.
func (r *VariationRepositoryPG) ListBySession(ctx context.Context, userID, sessionID string) ([]domain.ImageVariation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, session_id, style_name, description, artifact_url, prompt_used, original_image_url, mime, bytes, created_at
FROM image_variations
WHERE user_id = $1 AND session_id = $2
ORDER BY created_at ASC;
`, userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ImageVariation
	for rows.Next() {
		var v domain.ImageVariation
		if err := rows.Scan(&v.ID, &v.UserID, &v.SessionID, &v.StyleName, &v.Description, &v.ArtifactURL, &v.PromptUsed, &v.OriginalImageURL, &v.MIME, &v.Bytes, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one variation, enforcing ownership.
func (r *VariationRepositoryPG) GetByID(ctx context.Context, id, userID string) (*domain.ImageVariation, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, session_id, style_name, description, artifact_url, prompt_used, original_image_url, mime, bytes, created_at
FROM image_variations
WHERE id = $1 AND user_id = $2;
`, id, userID)
	var v domain.ImageVariation
	if err := row.Scan(&v.ID, &v.UserID, &v.SessionID, &v.StyleName, &v.Description, &v.ArtifactURL, &v.PromptUsed, &v.OriginalImageURL, &v.MIME, &v.Bytes, &v.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Delete removes an owner's variation row.
func (r *VariationRepositoryPG) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM image_variations
WHERE id = $1 AND user_id = $2;
`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.VariationRepository = (*VariationRepositoryPG)(nil)
