package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRoleHandler_List(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewRoleHandler(zap.NewNop()).RegisterRoutes(r)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/roles", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["ROLE_ADMIN","ROLE_USER"]`, rec.Body.String())
}
