package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaorganizer/media-api/internal/database"
	"golang.org/x/crypto/bcrypt"
)

const signupBody = `{
	"email": "jane@example.com",
	"password": "pa55word!",
	"firstName": "Jane",
	"lastName": "Doe"
}`

func TestRegisterUser(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("jane@example.com", pgxmock.AnyArg(), "Jane", "Doe").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	rr := do(t, app, jsonRequest(http.MethodPost, "/user", signupBody))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.Equal(t, float64(7), body["id"])
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "Jane", body["firstName"])
	assert.NotContains(t, rr.Body.String(), "pa55word")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("jane@example.com", pgxmock.AnyArg(), "Jane", "Doe").
		WillReturnError(&pgconn.PgError{Code: database.UniqueViolation})

	rr := do(t, app, jsonRequest(http.MethodPost, "/user", signupBody))

	require.Equal(t, http.StatusConflict, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, "a user with this email address already exists", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUserMissingFields(t *testing.T) {
	app, mock := newTestApplication(t)

	rr := do(t, app, jsonRequest(http.MethodPost, "/user", `{"email": "jane@example.com"}`))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decodeBody(t, rr)
	errs, ok := resp["error"].(map[string]any)
	require.True(t, ok, rr.Body.String())
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "firstName")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// userRow returns mock rows for one stored user with the given bcrypt-hashed
// password.
func userRow(t *testing.T, email, plaintext string) *pgxmock.Rows {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	require.NoError(t, err)

	return pgxmock.NewRows([]string{"id", "created_at", "email", "password_hash", "first_name", "last_name"}).
		AddRow(int64(7), time.Now(), email, hash, "Jane", "Doe")
}

func TestLogin(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("jane@example.com").
		WillReturnRows(userRow(t, "jane@example.com", "pa55word!"))

	rr := do(t, app, jsonRequest(http.MethodPost, "/login", `{"email": "jane@example.com", "password": "pa55word!"}`))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "Jane", body["firstName"])

	// The credential must be stripped from the response.
	assert.NotContains(t, body, "password")
	assert.NotContains(t, rr.Body.String(), "pa55word")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownEmail(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)

	rr := do(t, app, jsonRequest(http.MethodPost, "/login", `{"email": "missing@example.com", "password": "pa55word!"}`))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("jane@example.com").
		WillReturnRows(userRow(t, "jane@example.com", "pa55word!"))

	rr := do(t, app, jsonRequest(http.MethodPost, "/login", `{"email": "jane@example.com", "password": "wrong"}`))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginMissingCredentials(t *testing.T) {
	app, mock := newTestApplication(t)

	rr := do(t, app, jsonRequest(http.MethodPost, "/login", `{"email": "jane@example.com"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowUser(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(7)).
		WillReturnRows(userRow(t, "jane@example.com", "pa55word!"))

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/user/7", nil))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	assert.Equal(t, float64(7), body["id"])
	assert.Equal(t, "jane@example.com", body["email"])
	assert.NotContains(t, body, "password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowUserNotFound(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/user/404", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
