package advocate

import "github.com/gin-gonic/gin"

// AdvocateModule implements the app.Module interface for the advocate directory.
type AdvocateModule struct {
	handler     *AdvocateHandler
	pageHandler *AdvocatePageHandler
	listChain   []gin.HandlerFunc
	seedChain   []gin.HandlerFunc
}

// ModuleOption configures route-level middleware of the module.
type ModuleOption func(*AdvocateModule)

// WithListMiddleware runs m before the listing endpoint.
func WithListMiddleware(m ...gin.HandlerFunc) ModuleOption {
	return func(mod *AdvocateModule) {
		mod.listChain = append(mod.listChain, m...)
	}
}

// WithSeedMiddleware runs m before the seed endpoint.
func WithSeedMiddleware(m ...gin.HandlerFunc) ModuleOption {
	return func(mod *AdvocateModule) {
		mod.seedChain = append(mod.seedChain, m...)
	}
}

// NewModule creates a new AdvocateModule with the given handlers.
// Panics if h or ph is nil.
func NewModule(h *AdvocateHandler, ph *AdvocatePageHandler, opts ...ModuleOption) *AdvocateModule {
	if h == nil {
		panic("advocate.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("advocate.NewModule: pageHandler must not be nil")
	}
	m := &AdvocateModule{handler: h, pageHandler: ph}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterRoutes registers advocate API and page routes.
func (m *AdvocateModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/advocates", withChain(m.listChain, m.handler.List)...)
	api.POST("/seed", withChain(m.seedChain, m.handler.Seed)...)

	pages.GET("/", m.pageHandler.Home)
	pages.GET(directoryPath, m.pageHandler.ListPage)
}

func withChain(chain []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, h)
}
