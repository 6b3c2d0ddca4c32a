package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", DefaultPage, DefaultLimit},
		{"?page=3&limit=10", 3, 10},
		{"?page=-1&limit=0", DefaultPage, DefaultLimit},
		{"?limit=1000", DefaultPage, MaxLimit},
		{"?page=abc", DefaultPage, DefaultLimit},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/items"+tt.query, nil)
		p := Parse(c)
		if p.Page != tt.page || p.Limit != tt.limit || p.Offset != (tt.page-1)*tt.limit {
			t.Errorf("Parse(%q) = %+v", tt.query, p)
		}
	}
}

func TestWrap(t *testing.T) {
	page := Params{Page: 2, Limit: 20}.Wrap([]int{1}, 41)
	if page.TotalPages != 3 || page.Total != 41 || page.Page != 2 {
		t.Errorf("Wrap() = %+v", page)
	}
	if empty := (Params{Page: 1, Limit: 20}).Wrap([]int{}, 0); empty.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", empty.TotalPages)
	}
}
