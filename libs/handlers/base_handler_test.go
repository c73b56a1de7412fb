package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=16"`
}

func TestBaseHandler_DecodeJSON(t *testing.T) {
	h := &BaseHandler{Logger: zap.NewNop()}

	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{name: "valid", body: `{"email":"ana@example.com","password":"s3cretpass"}`},
		{name: "malformed", body: `{"email":`, expectedError: "invalid request body"},
		{name: "missing email", body: `{"password":"s3cretpass"}`, expectedError: "email is required"},
		{name: "bad email", body: `{"email":"ana","password":"s3cretpass"}`, expectedError: "email must be a valid email"},
		{name: "short password", body: `{"email":"ana@example.com","password":"short"}`, expectedError: "password must be at least 8 characters"},
		{name: "long password", body: `{"email":"ana@example.com","password":"0123456789abcdefg"}`, expectedError: "password must be at most 16 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst signupRequest

			err := h.DecodeJSON(req, &dst)

			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expectedError)
		})
	}
}

func TestBaseHandler_Respond(t *testing.T) {
	h := &BaseHandler{Logger: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.RespondMessage(rec, http.StatusOK, "done")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"done"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.RespondError(rec, http.StatusNotFound, "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"missing"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.RespondErrorMessage(rec, http.StatusBadRequest, "email is required")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"email is required","message":"email is required"}`, rec.Body.String())
}
