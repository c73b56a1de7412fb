package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	sharedMiddleware "github.com/chamagol/backend/libs/middlewares"
	"github.com/chamagol/backend/services/user-manager/internal/handlers"
	"github.com/chamagol/backend/services/user-manager/internal/payment"
	"github.com/chamagol/backend/services/user-manager/internal/repositories"
	"github.com/chamagol/backend/services/user-manager/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const confirmURL = "http://localhost:8081/api/auth/email/confirm"

var (
	selectUserQuery    = regexp.QuoteMeta(`SELECT id, username, email, password_hash, role FROM users WHERE email = ? LIMIT 1`)
	updatePasswordStmt = regexp.QuoteMeta(`UPDATE users SET password_hash = ? WHERE id = ?`)
	userColumns        = []string{"id", "username", "email", "password_hash", "role"}
)

// capturingMailer records the last link instead of sending email
type capturingMailer struct {
	to   string
	link string
}

func (m *capturingMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	m.to = to
	m.link = link
	return nil
}

type testEnv struct {
	router chi.Router
	mock   sqlmock.Sqlmock
	redis  *miniredis.Miniredis
	mailer *capturingMailer
}

// setupTestEnv wires the user-manager router against sqlmock, miniredis and a capturing mailer
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	m := &capturingMailer{}
	paymentClient := payment.Init(payment.Credentials{AccessToken: "abc123"}, logger)

	userRepo := repositories.NewUserRepository(db, logger)
	resetRepo := repositories.NewPasswordResetRepository(rdb, logger)
	svc := services.NewPasswordResetService(userRepo, resetRepo, m, logger, 15*time.Minute, confirmURL)

	r := chi.NewRouter()
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(sharedMiddleware.RecoveryMiddleware(logger))
	r.Route("/api", func(r chi.Router) {
		handlers.NewPasswordResetHandler(svc, logger).RegisterRoutes(r)
		handlers.NewRoleHandler(logger).RegisterRoutes(r)
		handlers.NewHealthHandler([]handlers.HealthCheck{
			{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		}, paymentClient, logger).RegisterRoutes(r)
	})

	return &testEnv{router: r, mock: mock, redis: mr, mailer: m}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestPasswordRecoveryFlow(t *testing.T) {
	env := setupTestEnv(t)
	const email = `{"email":"ana@example.com"}`

	env.mock.ExpectQuery(selectUserQuery).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "ana", "ana@example.com", "old-hash", "ROLE_USER"))

	rec := env.do(t, http.MethodPost, "/api/auth/password/forget", email)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ana@example.com", env.mailer.to)

	rec = env.do(t, http.MethodPost, "/api/auth/email/confirmed", email)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/password/reset", `{"email":"ana@example.com","password":"n3w-passw0rd"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	link, err := url.Parse(env.mailer.link)
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, link.RequestURI(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"email activated."}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/auth/email/confirmed", email)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"email activated."}`, rec.Body.String())

	env.mock.ExpectQuery(selectUserQuery).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "ana", "ana@example.com", "old-hash", "ROLE_USER"))
	env.mock.ExpectExec(updatePasswordStmt).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec = env.do(t, http.MethodPost, "/api/auth/password/reset", `{"email":"ana@example.com","password":"n3w-passw0rd"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"password updated."}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/auth/email/confirmed", email)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestPasswordRecovery_ExpiredLink(t *testing.T) {
	env := setupTestEnv(t)

	env.mock.ExpectQuery(selectUserQuery).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "ana", "ana@example.com", "old-hash", "ROLE_USER"))

	rec := env.do(t, http.MethodPost, "/api/auth/password/forget", `{"email":"ana@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	env.redis.FastForward(16 * time.Minute)

	link, err := url.Parse(env.mailer.link)
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, link.RequestURI(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPasswordRecovery_PasswordTooLong(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.redis.Set("password_reset:token:tok-1", "ana@example.com"))
	env.redis.HSet("password_reset:email:ana@example.com", "token", "tok-1", "confirmed", "1")

	tests := []struct {
		name     string
		password string
	}{
		{name: "ascii over limit", password: strings.Repeat("p", 80)},
		{name: "multibyte over byte limit", password: strings.Repeat("é", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/password/reset", `{"email":"ana@example.com","password":"`+tt.password+`"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestPasswordRecovery_UnknownEmail(t *testing.T) {
	env := setupTestEnv(t)

	env.mock.ExpectQuery(selectUserQuery).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	rec := env.do(t, http.MethodPost, "/api/auth/password/forget", `{"email":"ghost@example.com"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"user not found","message":"user not found"}`, rec.Body.String())
	assert.Empty(t, env.mailer.link)
}

func TestRolesAndHealth(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/users/roles", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["ROLE_ADMIN","ROLE_USER"]`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payment":"configured"`)
}
