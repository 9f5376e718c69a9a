package moderation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/models"
	"github.com/courtbook/courtbook/internal/store"
	"github.com/courtbook/courtbook/internal/testutil"
	"github.com/courtbook/courtbook/internal/validate"
)

func setupModerationTest(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	database := testutil.NewTestDB(t)
	st := store.New(database.Gorm)
	return New(st), st
}

func createTestUser(t *testing.T, st *store.Store, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:    "Test",
		Surname: "User",
		Email:   email,
		Active:  true,
		RoleID:  int64(authz.RoleUser),
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestIssueWarning_FirstWarning(t *testing.T) {
	svc, st := setupModerationTest(t)
	user := createTestUser(t, st, "first@example.com")

	tr, err := svc.IssueWarning(context.Background(), authz.RoleModerator, user.ID, "stop shouting on court")
	if err != nil {
		t.Fatalf("issue warning: %v", err)
	}
	if tr != TransitionFirstWarning {
		t.Fatalf("transition = %v, want TransitionFirstWarning", tr)
	}

	got, err := st.UserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.WarningCount != 1 {
		t.Errorf("warning count = %d, want 1", got.WarningCount)
	}
	if got.Warning1 == nil || *got.Warning1 != "stop shouting on court" {
		t.Errorf("warning1 = %v, want text stored", got.Warning1)
	}
	if got.Warning2 != nil {
		t.Errorf("warning2 = %v, want nil", *got.Warning2)
	}
	if !got.Active {
		t.Error("account suspended after a single warning")
	}
}

func TestIssueWarning_SecondWarningSuspends(t *testing.T) {
	svc, st := setupModerationTest(t)
	user := createTestUser(t, st, "second@example.com")

	ctx := context.Background()
	if _, err := svc.IssueWarning(ctx, authz.RoleModerator, user.ID, "first offense"); err != nil {
		t.Fatalf("first warning: %v", err)
	}

	tr, err := svc.IssueWarning(ctx, authz.RoleAdmin, user.ID, "second offense")
	if err != nil {
		t.Fatalf("second warning: %v", err)
	}
	if tr != TransitionSuspended {
		t.Fatalf("transition = %v, want TransitionSuspended", tr)
	}

	got, err := st.UserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.WarningCount != 2 {
		t.Errorf("warning count = %d, want 2", got.WarningCount)
	}
	if got.Warning2 == nil || *got.Warning2 != "second offense" {
		t.Errorf("warning2 = %v, want text stored", got.Warning2)
	}
	if got.Active {
		t.Error("account still active after second warning")
	}
}

func TestIssueWarning_ThirdWarningIsNoOp(t *testing.T) {
	svc, st := setupModerationTest(t)
	user := createTestUser(t, st, "third@example.com")

	ctx := context.Background()
	for i, text := range []string{"first offense", "second offense"} {
		if _, err := svc.IssueWarning(ctx, authz.RoleModerator, user.ID, text); err != nil {
			t.Fatalf("warning %d: %v", i+1, err)
		}
	}

	tr, err := svc.IssueWarning(ctx, authz.RoleModerator, user.ID, "third offense")
	if err != nil {
		t.Fatalf("third warning: %v", err)
	}
	if tr != TransitionNone {
		t.Fatalf("transition = %v, want TransitionNone", tr)
	}

	got, err := st.UserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.WarningCount != 2 {
		t.Errorf("warning count = %d, want 2 after no-op", got.WarningCount)
	}
	if *got.Warning1 != "first offense" || *got.Warning2 != "second offense" {
		t.Error("warning slots changed by a no-op third warning")
	}
}

func TestIssueWarning_RegularUserForbidden(t *testing.T) {
	svc, st := setupModerationTest(t)
	user := createTestUser(t, st, "forbidden@example.com")

	_, err := svc.IssueWarning(context.Background(), authz.RoleUser, user.ID, "not your call")
	if !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestIssueWarning_RoleCheckedBeforeValidation(t *testing.T) {
	svc, _ := setupModerationTest(t)

	// Invalid text and insufficient role together: the role failure wins.
	_, err := svc.IssueWarning(context.Background(), authz.RoleUser, 999, "no")
	if !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden before validation", err)
	}
}

func TestIssueWarning_TextLength(t *testing.T) {
	svc, st := setupModerationTest(t)
	user := createTestUser(t, st, "length@example.com")

	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"too short", "hey"},
		{"too long", fmt.Sprintf("%0101d", 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.IssueWarning(context.Background(), authz.RoleModerator, user.ID, tc.text)
			var fields validate.FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("err = %v, want FieldErrors", err)
			}
			if len(fields["warning"]) == 0 {
				t.Fatalf("no messages for warning field: %v", fields)
			}
		})
	}
}

func TestIssueWarning_UnknownTarget(t *testing.T) {
	svc, _ := setupModerationTest(t)

	_, err := svc.IssueWarning(context.Background(), authz.RoleModerator, 424242, "valid warning text")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestWarnings(t *testing.T) {
	svc, st := setupModerationTest(t)
	user := createTestUser(t, st, "slots@example.com")

	ctx := context.Background()
	w1, w2, err := svc.Warnings(ctx, user.ID)
	if err != nil {
		t.Fatalf("warnings: %v", err)
	}
	if w1 != nil || w2 != nil {
		t.Fatalf("clean account has warnings: %v %v", w1, w2)
	}

	if _, err := svc.IssueWarning(ctx, authz.RoleModerator, user.ID, "first offense"); err != nil {
		t.Fatalf("issue warning: %v", err)
	}

	w1, w2, err = svc.Warnings(ctx, user.ID)
	if err != nil {
		t.Fatalf("warnings: %v", err)
	}
	if w1 == nil || *w1 != "first offense" {
		t.Errorf("warning1 = %v, want first offense", w1)
	}
	if w2 != nil {
		t.Errorf("warning2 = %v, want nil", *w2)
	}
}
