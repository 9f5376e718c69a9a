package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/auth"
	"github.com/courtbook/courtbook/internal/models"
	"github.com/courtbook/courtbook/internal/store"
	"github.com/courtbook/courtbook/internal/testutil"
)

const testSecret = "test-secret"

func setupAuthTest(t *testing.T) (*store.Store, *models.User) {
	t.Helper()

	database := testutil.NewTestDB(t)
	s := store.New(database.Gorm)

	user := &models.User{
		Name:    "Token",
		Surname: "Holder",
		Email:   "holder@example.com",
		Active:  true,
		RoleID:  int64(authz.RoleUser),
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return s, user
}

func callerCapture(t *testing.T, s *store.Store, authorization string) *authz.Caller {
	t.Helper()

	var captured *authz.Caller
	handler := WithAuth(testSecret, s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = authz.CallerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return captured
}

func TestWithAuth_ValidToken(t *testing.T) {
	s, user := setupAuthTest(t)

	token, err := auth.Sign(testSecret, user.ID, user.RoleID, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	caller := callerCapture(t, s, "Bearer "+token)
	if caller == nil {
		t.Fatal("no caller resolved from a valid token")
	}
	if caller.ID != user.ID || caller.Role != authz.RoleUser {
		t.Fatalf("caller = %+v", caller)
	}
}

func TestWithAuth_RoleComesFromDatabase(t *testing.T) {
	s, user := setupAuthTest(t)

	// Token minted before a promotion still resolves to the current role.
	token, err := auth.Sign(testSecret, user.ID, user.RoleID, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	user.RoleID = int64(authz.RoleModerator)
	if err := s.SaveUser(context.Background(), user); err != nil {
		t.Fatalf("save: %v", err)
	}

	caller := callerCapture(t, s, "Bearer "+token)
	if caller == nil {
		t.Fatal("no caller resolved")
	}
	if caller.Role != authz.RoleModerator {
		t.Fatalf("role = %v, want moderator after promotion", caller.Role)
	}
}

func TestWithAuth_UnauthenticatedPaths(t *testing.T) {
	s, user := setupAuthTest(t)

	badSecret, err := auth.Sign("other-secret", user.ID, user.RoleID, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	deletedUser, err := auth.Sign(testSecret, 424242, 3, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		name          string
		authorization string
	}{
		{"no header", ""},
		{"malformed header", "Token abc"},
		{"wrong secret", "Bearer " + badSecret},
		{"unknown user", "Bearer " + deletedUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if caller := callerCapture(t, s, tc.authorization); caller != nil {
				t.Fatalf("caller = %+v, want nil", caller)
			}
		})
	}
}

func TestChainMiddleware_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := ChainMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		mk("inner"), mk("outer"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("order = %v, want outer then inner", order)
	}
}
