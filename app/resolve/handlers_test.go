package resolve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/propline/propline/app/api"
)

type stubService struct {
	report *Report
	err    error
}

func (s *stubService) Resolve(_ context.Context) (*Report, error) {
	return s.report, s.err
}

func setupHandlerRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(service)
	r.POST("/jobs/resolve", handler.RunResolve)
	return r
}

func TestHandler_RunResolve(t *testing.T) {
	t.Run("returns the pass report", func(t *testing.T) {
		r := setupHandlerRouter(&stubService{report: &Report{Scanned: 5, Yes: 2, No: 1, Skipped: 2}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jobs/resolve", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp api.Response
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data, _ := json.Marshal(resp.Data)
		var report Report
		assert.NoError(t, json.Unmarshal(data, &report))
		assert.Equal(t, 5, report.Scanned)
		assert.Equal(t, 2, report.Yes)
	})

	t.Run("service failure returns 500", func(t *testing.T) {
		r := setupHandlerRouter(&stubService{err: assert.AnError})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jobs/resolve", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
