package advocate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/advocates/internal/domain"
	"github.com/simp-lee/advocates/internal/pkg"
)

// DefaultPageWindow is the number of page links a pager shows.
const DefaultPageWindow = 5

// Recorder receives search and seed observations. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveSearch(filtered bool, results int)
	ObserveSeed(inserted int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSearch(bool, int) {}
func (nopRecorder) ObserveSeed(int)         {}

// ServiceOption configures the advocate service.
type ServiceOption func(*advocateService)

// WithPageWindow sets how many page numbers AdvocatePage.Pages holds.
func WithPageWindow(n int) ServiceOption {
	return func(s *advocateService) {
		if n > 0 {
			s.pageWindow = n
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *advocateService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// advocateService implements domain.AdvocateService.
type advocateService struct {
	repo       domain.AdvocateRepository
	seed       []domain.Advocate
	pageWindow int
	recorder   Recorder
}

// NewAdvocateService creates a new AdvocateService. seed is the batch inserted
// by every call to Seed.
func NewAdvocateService(repo domain.AdvocateRepository, seed []domain.Advocate, opts ...ServiceOption) domain.AdvocateService {
	s := &advocateService{
		repo:       repo,
		seed:       seed,
		pageWindow: DefaultPageWindow,
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search counts the matches, then loads the requested slice. Pages outside
// 1..totalPages return metadata with an empty slice and never reach the
// slice query.
func (s *advocateService) Search(ctx context.Context, req domain.SearchRequest) (*domain.AdvocatePage, error) {
	if req.Limit < 1 {
		req.Limit = pkg.DefaultLimit
	}

	total, err := s.repo.Count(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("count advocates: %w", err)
	}

	result := &domain.AdvocatePage{
		Data:       []domain.Advocate{},
		Pagination: pkg.NewPageMeta(total, req.Page, req.Limit),
		Pages:      []int{},
	}
	if !pkg.InRange(result.Pagination) {
		s.recorder.ObserveSearch(req.Search != "", 0)
		return result, nil
	}

	page, err := pagination.NewPaginator(
		pagination.WithItemsPerPage[domain.Advocate](req.Limit),
		pagination.WithPagesInRange[domain.Advocate](s.pageWindow),
		pagination.WithKnownTotal[domain.Advocate](total),
		pagination.WithSliceCallback(func(ctx context.Context, offset, limit int) ([]domain.Advocate, error) {
			return s.repo.Find(ctx, req.Search, offset, limit)
		}),
	).Paginate(ctx, req.Page)
	if err != nil {
		return nil, fmt.Errorf("find advocates: %w", err)
	}

	result.Data = page.Items
	result.Pages = page.Pages
	s.recorder.ObserveSearch(req.Search != "", len(page.Items))
	return result, nil
}

// Seed inserts the configured batch unconditionally. Repeated calls insert
// duplicates.
func (s *advocateService) Seed(ctx context.Context) ([]domain.Advocate, error) {
	batch := freshBatch(s.seed)
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("seed advocates: %w", err)
	}

	s.recorder.ObserveSeed(len(batch))
	slog.InfoContext(ctx, "advocates seeded", slog.Int("count", len(batch)))
	return batch, nil
}
