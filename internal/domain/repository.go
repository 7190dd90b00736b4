package domain

import "context"

// VariationRepository persists image variation metadata. All reads and
// writes are scoped to the owning user.
type VariationRepository interface {
	Insert(ctx context.Context, v *ImageVariation) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]ImageVariation, error)
	ListBySession(ctx context.Context, userID, sessionID string) ([]ImageVariation, error)
	GetByID(ctx context.Context, id, userID string) (*ImageVariation, error)
	Delete(ctx context.Context, id, userID string) error
}

// VideoRepository persists completed video artifacts.
type VideoRepository interface {
	Insert(ctx context.Context, v *VideoArtifact) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]VideoArtifact, error)
}
