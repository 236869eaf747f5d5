package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"todo_backend/internal/config"
	httpServer "todo_backend/internal/http"
	"todo_backend/internal/repository"
	"todo_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	email TEXT PRIMARY KEY,
	hashed_password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS todo (
	id TEXT PRIMARY KEY,
	user_email TEXT NOT NULL,
	title TEXT NOT NULL UNIQUE,
	progress TEXT,
	date TEXT
);
`

func setup(t *testing.T) (*httptest.Server, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	ctx := context.Background()
	if _, err := db.Exec(ctx, schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err := db.Exec(ctx, `TRUNCATE todo, users`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	service.InitJWTWith("integration-secret", time.Hour)

	// limits high enough that the test traffic never trips them
	cfg := &config.Config{
		APIRateLimit:   10000,
		APIRateWindow:  time.Minute,
		AuthRateLimit:  10000,
		AuthRateWindow: time.Minute,
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	httpServer.RegisterRoutes(r, db, "test", cfg)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, db
}

func doJSON(t *testing.T, method, url, token, body string) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, b
}

func field(t *testing.T, body []byte, key string) string {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("unmarshal %s: %v", body, err)
	}
	v, _ := m[key].(string)
	return v
}

func TestSignupLoginFlow(t *testing.T) {
	srv, db := setup(t)

	// signup
	status, body := doJSON(t, "POST", srv.URL+"/signup", "", `{"email":"a@x.com","password":"secret1"}`)
	if status != http.StatusOK {
		t.Fatalf("signup: status = %d, body = %s", status, body)
	}
	var signupRes struct {
		User  struct{ Email string }
		Token string
	}
	if err := json.Unmarshal(body, &signupRes); err != nil {
		t.Fatalf("unmarshal signup response: %v", err)
	}
	if signupRes.User.Email != "a@x.com" || signupRes.Token == "" {
		t.Fatalf("signup response = %s", body)
	}

	// duplicate signup conflicts, and exactly one row exists
	status, body = doJSON(t, "POST", srv.URL+"/signup", "", `{"email":"a@x.com","password":"secret2"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate signup: status = %d, body = %s", status, body)
	}
	var count int
	if err := db.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM users WHERE email = $1`, "a@x.com").Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("user rows = %d; want 1", count)
	}

	// short password is rejected before any insert
	status, _ = doJSON(t, "POST", srv.URL+"/signup", "", `{"email":"b@x.com","password":"12345"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("short password signup: status = %d", status)
	}
	userRepo := repository.NewUserRepository(db)
	if _, err := userRepo.GetByEmail(context.Background(), "b@x.com"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("user row created despite failed validation: %v", err)
	}

	// login with correct credentials
	status, body = doJSON(t, "POST", srv.URL+"/login", "", `{"email":"a@x.com","password":"secret1"}`)
	if status != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", status, body)
	}
	if field(t, body, "email") != "a@x.com" || field(t, body, "token") == "" {
		t.Fatalf("login response = %s", body)
	}

	// wrong password and unknown user get distinct 401 messages
	status, body = doJSON(t, "POST", srv.URL+"/login", "", `{"email":"a@x.com","password":"wrong1"}`)
	if status != http.StatusUnauthorized || field(t, body, "detail") != "Incorrect password" {
		t.Fatalf("wrong password: status = %d, body = %s", status, body)
	}
	status, body = doJSON(t, "POST", srv.URL+"/login", "", `{"email":"ghost@x.com","password":"secret1"}`)
	if status != http.StatusUnauthorized || field(t, body, "detail") != "User does not exist" {
		t.Fatalf("unknown user: status = %d, body = %s", status, body)
	}
}

func TestTodoCRUDFlow(t *testing.T) {
	srv, _ := setup(t)

	status, body := doJSON(t, "POST", srv.URL+"/signup", "", `{"email":"a@x.com","password":"secret1"}`)
	if status != http.StatusOK {
		t.Fatalf("signup: status = %d, body = %s", status, body)
	}
	token := field(t, body, "token")

	// unauthenticated access is rejected
	status, _ = doJSON(t, "GET", srv.URL+"/todos", "", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: status = %d", status)
	}

	// create
	status, body = doJSON(t, "POST", srv.URL+"/todos", token,
		`{"user_email":"a@x.com","title":"Buy milk","progress":"0","date":"2024-01-01"}`)
	if status != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", status, body)
	}
	id := field(t, body, "id")
	if id == "" {
		t.Fatalf("create response missing id: %s", body)
	}

	// duplicate title conflicts regardless of other fields
	status, _ = doJSON(t, "POST", srv.URL+"/todos", token,
		`{"user_email":"other@x.com","title":"Buy milk","progress":"50","date":"2024-02-02"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate title: status = %d", status)
	}

	// get returns the submitted fields exactly
	status, body = doJSON(t, "GET", srv.URL+"/todos/"+id, token, "")
	if status != http.StatusOK {
		t.Fatalf("get: status = %d, body = %s", status, body)
	}
	var got struct {
		ID        string `json:"id"`
		UserEmail string `json:"user_email"`
		Title     string `json:"title"`
		Progress  string `json:"progress"`
		Date      string `json:"date"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal todo: %v", err)
	}
	if got.ID != id || got.UserEmail != "a@x.com" || got.Title != "Buy milk" ||
		got.Progress != "0" || got.Date != "2024-01-01" {
		t.Fatalf("fetched todo = %+v", got)
	}

	// list contains it
	status, body = doJSON(t, "GET", srv.URL+"/todos", token, "")
	if status != http.StatusOK {
		t.Fatalf("list: status = %d", status)
	}
	var list []map[string]any
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list length = %d; want 1", len(list))
	}

	// full replace: every field overwritten
	status, body = doJSON(t, "PUT", srv.URL+"/todos/"+id, token,
		`{"user_email":"a@x.com","title":"Buy bread","progress":"100","date":"2024-03-03"}`)
	if status != http.StatusOK {
		t.Fatalf("update: status = %d, body = %s", status, body)
	}
	status, body = doJSON(t, "GET", srv.URL+"/todos/"+id, token, "")
	if status != http.StatusOK {
		t.Fatalf("get after update: status = %d", status)
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal updated todo: %v", err)
	}
	if got.Title != "Buy bread" || got.Progress != "100" || got.Date != "2024-03-03" {
		t.Fatalf("updated todo = %+v", got)
	}

	// update and delete on a nonexistent id report not found
	status, _ = doJSON(t, "PUT", srv.URL+"/todos/nope", token,
		`{"user_email":"a@x.com","title":"x","progress":"0","date":"2024-01-01"}`)
	if status != http.StatusNotFound {
		t.Fatalf("update missing: status = %d", status)
	}
	status, _ = doJSON(t, "DELETE", srv.URL+"/todos/nope", token, "")
	if status != http.StatusNotFound {
		t.Fatalf("delete missing: status = %d", status)
	}

	// delete, then the record is gone
	status, _ = doJSON(t, "DELETE", srv.URL+"/todos/"+id, token, "")
	if status != http.StatusOK {
		t.Fatalf("delete: status = %d", status)
	}
	status, _ = doJSON(t, "GET", srv.URL+"/todos/"+id, token, "")
	if status != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d", status)
	}

	// list is an empty array, not null
	status, body = doJSON(t, "GET", srv.URL+"/todos", token, "")
	if status != http.StatusOK {
		t.Fatalf("final list: status = %d", status)
	}
	if string(bytes.TrimSpace(body)) != "[]" {
		t.Fatalf("final list body = %s; want []", body)
	}
}

func TestTodoScopedToTokenIdentity(t *testing.T) {
	srv, _ := setup(t)

	status, body := doJSON(t, "POST", srv.URL+"/signup", "", `{"email":"owner@x.com","password":"secret1"}`)
	if status != http.StatusOK {
		t.Fatalf("signup owner: status = %d", status)
	}
	ownerToken := field(t, body, "token")

	status, body = doJSON(t, "POST", srv.URL+"/signup", "", `{"email":"other@x.com","password":"secret1"}`)
	if status != http.StatusOK {
		t.Fatalf("signup other: status = %d", status)
	}
	otherToken := field(t, body, "token")

	status, body = doJSON(t, "POST", srv.URL+"/todos", ownerToken,
		`{"user_email":"owner@x.com","title":"Private item","progress":"0","date":"2024-01-01"}`)
	if status != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", status, body)
	}
	id := field(t, body, "id")

	// a different identity reads the same id as not found
	status, _ = doJSON(t, "GET", srv.URL+"/todos/"+id, otherToken, "")
	if status != http.StatusNotFound {
		t.Fatalf("cross-identity get: status = %d; want 404", status)
	}

	// and does not see it in their list
	status, body = doJSON(t, "GET", srv.URL+"/todos", otherToken, "")
	if status != http.StatusOK {
		t.Fatalf("cross-identity list: status = %d", status)
	}
	if string(bytes.TrimSpace(body)) != "[]" {
		t.Fatalf("cross-identity list body = %s; want []", body)
	}
}
