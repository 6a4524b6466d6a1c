package advocate

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/advocates/internal/domain"
	"github.com/simp-lee/advocates/internal/pkg"
	"github.com/simp-lee/advocates/internal/view"
)

const directoryPath = "/advocates"

// AdvocatePageHandler renders the directory page and its htmx fragments.
type AdvocatePageHandler struct {
	svc domain.AdvocateService
}

// NewAdvocatePageHandler creates a new AdvocatePageHandler with the given service.
func NewAdvocatePageHandler(svc domain.AdvocateService) *AdvocatePageHandler {
	return &AdvocatePageHandler{svc: svc}
}

// Home redirects to the directory.
// GET /
func (h *AdvocatePageHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, directoryPath)
}

// ListPage renders the directory. htmx requests get only the results
// fragment so the search box keeps focus while typing.
// GET /advocates
func (h *AdvocatePageHandler) ListPage(c *gin.Context) {
	req := pkg.ParseSearchRequest(c)

	page, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "render directory", slog.Any("error", err))
		if isHTMX(c) {
			// Keep the current results on screen.
			c.Header("HX-Reswap", "none")
		}
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	data := gin.H{
		"Search":  req.Search,
		"Cards":   view.NewCards(page.Data),
		"Pager":   view.NewPager(directoryPath, req.Search, page.Pagination, page.Pages),
		"Limit":   req.Limit,
		"BaseURL": directoryPath,
	}

	c.Header("Vary", "HX-Request")
	if isHTMX(c) {
		c.HTML(http.StatusOK, "advocate/results.html", data)
		return
	}
	c.HTML(http.StatusOK, "advocate/list.html", data)
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
