package advocate

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/advocates/internal/domain"
	"github.com/simp-lee/advocates/internal/pkg"
)

// AdvocateHandler handles JSON API requests for advocates.
type AdvocateHandler struct {
	svc domain.AdvocateService
	// onSeed runs after a successful seed, e.g. to drop cached listings.
	onSeed func()
}

// NewAdvocateHandler creates a new AdvocateHandler with the given service.
func NewAdvocateHandler(svc domain.AdvocateService) *AdvocateHandler {
	return &AdvocateHandler{svc: svc}
}

// OnSeed registers fn to run after every successful seed.
func (h *AdvocateHandler) OnSeed(fn func()) {
	h.onSeed = fn
}

// List handles GET /api/advocates.
func (h *AdvocateHandler) List(c *gin.Context) {
	req := pkg.ParseSearchRequest(c)

	page, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Page(c, toResponses(page.Data), page.Pagination)
}

// Seed handles POST /api/seed.
func (h *AdvocateHandler) Seed(c *gin.Context) {
	records, err := h.svc.Seed(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if h.onSeed != nil {
		h.onSeed()
	}

	c.JSON(http.StatusOK, SeedResponse{Advocates: toResponses(records)})
}
