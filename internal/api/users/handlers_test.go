package users

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/courtbook/courtbook/internal/auth"
	"github.com/courtbook/courtbook/internal/store"
	"github.com/courtbook/courtbook/internal/testutil"
)

func setupUsersTest(t *testing.T) *store.Store {
	t.Helper()

	database := testutil.NewTestDB(t)
	s := store.New(database.Gorm)
	InitHandlers(s)

	t.Cleanup(func() { st = nil })
	return s
}

func TestHandleRegister(t *testing.T) {
	s := setupUsersTest(t)

	body := `{"name":"Alice","surname":"Smith","email":"alice@example.com","password":"longenough"}`
	rec := httptest.NewRecorder()
	HandleRegister(rec, httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Msg  string  `json:"msg"`
		User Profile `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Msg != "User registered successfully" {
		t.Errorf("msg = %q", resp.Msg)
	}
	if resp.User.Name != "Alice" {
		t.Errorf("name = %q", resp.User.Name)
	}

	stored, err := s.UserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("load created user: %v", err)
	}
	if stored.RoleID != 3 {
		t.Errorf("role = %d, want regular user", stored.RoleID)
	}
	if !stored.Active {
		t.Error("new account not active")
	}
	if stored.Password == "longenough" {
		t.Error("password stored in the clear")
	}
	if !auth.VerifyPassword(stored.Password, "longenough") {
		t.Error("stored hash does not verify")
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	setupUsersTest(t)

	body := `{"name":"Alice","surname":"Smith","email":"dup@example.com","password":"longenough"}`
	rec := httptest.NewRecorder()
	HandleRegister(rec, httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first register status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	HandleRegister(rec, httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Msg != "The email is already registered" {
		t.Errorf("msg = %q", resp.Msg)
	}
}

func TestHandleRegister_Validation(t *testing.T) {
	setupUsersTest(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"surname":"Smith","email":"a@example.com","password":"longenough"}`, "name"},
		{"long name", `{"name":"` + strings.Repeat("x", 31) + `","surname":"Smith","email":"a@example.com","password":"longenough"}`, "name"},
		{"bad email", `{"name":"Alice","surname":"Smith","email":"nope","password":"longenough"}`, "email"},
		{"short password", `{"name":"Alice","surname":"Smith","email":"a@example.com","password":"short"}`, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleRegister(rec, httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(tc.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			var resp struct {
				Error map[string][]string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if len(resp.Error[tc.want]) == 0 {
				t.Fatalf("no errors for %s: %v", tc.want, resp.Error)
			}
		})
	}
}

func TestHandleProfile_HidesSensitiveFields(t *testing.T) {
	setupUsersTest(t)

	body := `{"name":"Bob","surname":"Jones","email":"bob@example.com","password":"longenough"}`
	rec := httptest.NewRecorder()
	HandleRegister(rec, httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("register status = %d", rec.Code)
	}
	var created struct {
		User Profile `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil)
	req.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	HandleProfile(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	raw := rec.Body.String()
	for _, field := range []string{"password", "email", "warning"} {
		if strings.Contains(raw, field) {
			t.Errorf("public profile leaks %q: %s", field, raw)
		}
	}
}

func TestHandleProfile_UnknownUser(t *testing.T) {
	setupUsersTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/424242", nil)
	req.SetPathValue("id", "424242")
	rec := httptest.NewRecorder()
	HandleProfile(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
