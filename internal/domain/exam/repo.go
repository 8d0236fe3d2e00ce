package exam

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for exam records. Implementations
// must be safe for concurrent use; the same instance serves the request path
// and auxiliary tooling.
type Repository interface {
	Insert(ctx context.Context, r *ExamRecord) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ExamRecord, error)
	// Search returns records matching the filter, most recent exam first.
	Search(ctx context.Context, f SearchFilter, limit, skip int) ([]*ExamRecord, int, error)
	Update(ctx context.Context, id uuid.UUID, u ExamUpdate) (*ExamRecord, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context, f SearchFilter) (int, error)
	AggregateByStatus(ctx context.Context) ([]StatusStats, error)
	CountByRiskLevel(ctx context.Context) (map[string]int, error)
}
