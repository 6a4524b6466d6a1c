package advocate

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/advocates/internal/domain"
	"github.com/simp-lee/advocates/internal/pkg"
)

// seedBatchSize bounds the rows per INSERT statement during a seed.
const seedBatchSize = 100

// advocateRepository implements domain.AdvocateRepository using GORM.
type advocateRepository struct {
	db *gorm.DB
}

// NewAdvocateRepository creates a new AdvocateRepository backed by the given GORM database.
func NewAdvocateRepository(db *gorm.DB) domain.AdvocateRepository {
	return &advocateRepository{db: db}
}

// Count returns the number of records matching search. It builds its own query
// chain so the count never shares state with a slice query.
func (r *advocateRepository) Count(ctx context.Context, search string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Advocate{}).
		Scopes(matching(search)).
		Count(&total).Error
	if err != nil {
		return 0, domain.StoreError(err)
	}
	return total, nil
}

// Find returns one slice of matching records ordered by ID. A negative offset
// or non-positive limit yields an empty slice, since GORM would otherwise
// silently drop the clause and return the first page.
func (r *advocateRepository) Find(ctx context.Context, search string, offset, limit int) ([]domain.Advocate, error) {
	advocates := []domain.Advocate{}
	if offset < 0 || limit < 1 {
		return advocates, nil
	}

	err := r.db.WithContext(ctx).
		Scopes(matching(search)).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&advocates).Error
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return advocates, nil
}

// CreateBatch inserts every record in a single transaction. IDs, creation
// timestamps and the folded search columns are written back into the given
// slice.
func (r *advocateRepository) CreateBatch(ctx context.Context, advocates []domain.Advocate) error {
	if len(advocates) == 0 {
		return nil
	}
	for i := range advocates {
		advocates[i].Folded = foldedIndex(advocates[i])
	}
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return tx.CreateInBatches(&advocates, seedBatchSize).Error
	})
	if err != nil {
		return domain.StoreError(err)
	}
	return nil
}
