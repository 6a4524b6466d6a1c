package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/advocates/internal/domain"
)

func newResponseTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/advocates", nil)
	return c, w
}

func TestPage(t *testing.T) {
	c, w := newResponseTestContext()
	Page(c, []domain.Advocate{{BaseModel: domain.BaseModel{ID: 1}, FirstName: "Anna"}}, NewPageMeta(1, 1, 9))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Data       []map[string]any `json:"data"`
		Pagination map[string]any   `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0]["firstName"] != "Anna" {
		t.Errorf("unexpected data: %v", body.Data)
	}
	for _, key := range []string{"total", "totalPages", "currentPage", "limit", "hasMore"} {
		if _, ok := body.Pagination[key]; !ok {
			t.Errorf("pagination missing %q", key)
		}
	}
}

func TestPage_EmptyDataIsArray(t *testing.T) {
	c, w := newResponseTestContext()
	Page[domain.Advocate](c, nil, NewPageMeta(0, 1, 9))

	want := `{"data":[],"pagination":{"total":0,"totalPages":0,"currentPage":1,"limit":9,"hasMore":false}}`
	if got := w.Body.String(); got != want {
		t.Errorf("body = %s; want %s", got, want)
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not found"},
		{"validation", domain.NewAppError(domain.CodeValidation, "bad page", nil), http.StatusBadRequest, "bad page"},
		{"store", domain.StoreError(errors.New("disk")), http.StatusInternalServerError, "database error"},
		{"canceled", domain.ErrCanceled, http.StatusServiceUnavailable, "request canceled"},
		{"generic", errors.New("leaky detail"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext()
			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Code != tt.wantStatus || resp.Message != tt.wantMessage || resp.Data != nil {
				t.Errorf("got %+v; want code=%d message=%q", resp, tt.wantStatus, tt.wantMessage)
			}
		})
	}
}
