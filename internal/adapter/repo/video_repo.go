package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"adgen/internal/domain"
)

// VideoRepositoryPG implements domain.VideoRepository using PostgreSQL.
type VideoRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewVideoRepository constructs a new video repository instance.
func NewVideoRepository(pool *pgxpool.Pool) *VideoRepositoryPG {
	return &VideoRepositoryPG{pool: pool}
}

// Insert persists one completed video artifact. The image-to-video
// provenance invariant is checked before touching the database.
func (r *VideoRepositoryPG) Insert(ctx context.Context, v *domain.VideoArtifact) error {
	if err := v.Validate(); err != nil {
		return err
	}
	query := `
INSERT INTO video_artifacts (id, user_id, title, prompt, video_url, generation_type, source_image_url, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err := r.pool.Exec(ctx, query,
		v.ID,
		v.UserID,
		v.Title,
		v.Prompt,
		v.VideoURL,
		v.GenerationType,
		v.SourceImageURL,
		v.Status,
	)
	return err
}

// ListByUser returns the owner's video artifacts, newest first.
func (r *VideoRepositoryPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.VideoArtifact, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, title, prompt, video_url, generation_type, source_image_url, status, created_at
FROM video_artifacts
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3;
`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VideoArtifact
	for rows.Next() {
		var v domain.VideoArtifact
		if err := rows.Scan(&v.ID, &v.UserID, &v.Title, &v.Prompt, &v.VideoURL, &v.GenerationType, &v.SourceImageURL, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ domain.VideoRepository = (*VideoRepositoryPG)(nil)
