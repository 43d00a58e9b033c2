package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nft1025/task/internal/domain"
)

var (
	aliceSession = domain.Session{UserID: "user-alice", Username: "alice"}
	bobSession   = domain.Session{UserID: "user-bob", Username: "bob"}
)

func newTestTaskService(t *testing.T) *TaskService {
	t.Helper()
	return NewTaskService(newTestStore(t), zerolog.Nop())
}

func mustCreate(t *testing.T, svc *TaskService, sess domain.Session, title string) domain.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), sess, CreateInput{UserID: sess.UserID, Title: title})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return task
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	task, err := svc.Create(context.Background(), aliceSession, CreateInput{
		UserID:      aliceSession.UserID,
		Title:       "  Buy milk  ",
		Description: " two liters ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.Title != "Buy milk" || task.Description != "two liters" {
		t.Fatalf("expected trimmed fields, got %+v", task)
	}
	if task.Completed {
		t.Fatal("new task must not be completed")
	}
	if task.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, aliceSession, CreateInput{UserID: aliceSession.UserID, Title: "   "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = svc.Create(ctx, aliceSession, CreateInput{UserID: bobSession.UserID, Title: "ok"})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestListIsolationBetweenUsers(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, aliceSession, "alice's task")
	mustCreate(t, svc, bobSession, "bob's task")

	alice := svc.List(ctx, aliceSession.UserID)
	if len(alice) != 1 || alice[0].ID != task.ID {
		t.Fatalf("unexpected list for alice: %+v", alice)
	}
	for _, got := range svc.List(ctx, bobSession.UserID) {
		if got.ID == task.ID {
			t.Fatal("alice's task leaked into bob's list")
		}
	}
}

func TestListNeverErrors(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	if got := svc.List(context.Background(), ""); len(got) != 0 {
		t.Fatalf("expected empty slice for empty id, got %+v", got)
	}
}

func TestUpdateReplacesMutableFields(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, aliceSession, "before")
	deadline := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	updated, err := svc.Update(ctx, aliceSession, domain.Task{
		ID:        task.ID,
		UserID:    aliceSession.UserID,
		Title:     "  after  ",
		Deadline:  &deadline,
		Completed: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "after" || !updated.Completed || updated.Deadline == nil {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Fatal("update must not change creation time")
	}
}

func TestUpdateErrors(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, aliceSession, "alice's task")

	_, err := svc.Update(ctx, aliceSession, domain.Task{ID: "", UserID: aliceSession.UserID, Title: "x"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing id, got %v", err)
	}
	_, err = svc.Update(ctx, aliceSession, domain.Task{ID: task.ID, UserID: aliceSession.UserID, Title: " "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing title, got %v", err)
	}
	_, err = svc.Update(ctx, aliceSession, domain.Task{ID: "missing", UserID: aliceSession.UserID, Title: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// A non-owning session must be rejected and the task left unchanged.
	_, err = svc.Update(ctx, bobSession, domain.Task{ID: task.ID, UserID: aliceSession.UserID, Title: "stolen"})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	after := svc.List(ctx, aliceSession.UserID)
	if len(after) != 1 || after[0].Title != "alice's task" {
		t.Fatalf("task changed despite rejected update: %+v", after)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, aliceSession, "ephemeral")

	if err := svc.Delete(ctx, aliceSession, task.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, aliceSession, task.ID); err != nil {
		t.Fatalf("second delete must be silent: %v", err)
	}
	if got := svc.List(ctx, aliceSession.UserID); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}

func TestSetCompleted(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, aliceSession, "flippable")

	updated, err := svc.SetCompleted(ctx, aliceSession, task.ID, true)
	if err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if !updated.Completed {
		t.Fatal("expected completed=true")
	}
	if updated.Title != task.Title {
		t.Fatal("set completed must flip only the flag")
	}

	if _, err := svc.SetCompleted(ctx, aliceSession, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Bob cannot see alice's task, so from his session it does not exist.
	if _, err := svc.SetCompleted(ctx, bobSession, task.ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign task, got %v", err)
	}
}

func TestBulkUpdateSkipsUnknownAndForeign(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	ctx := context.Background()

	mine := mustCreate(t, svc, aliceSession, "mine")
	theirs := mustCreate(t, svc, bobSession, "theirs")

	done := true
	title := "renamed"
	err := svc.BulkUpdate(ctx, aliceSession, []TaskPatch{
		{ID: mine.ID, Completed: &done, Title: &title},
		{ID: "missing", Completed: &done},
		{ID: theirs.ID, Completed: &done},
	})
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}

	alice := svc.List(ctx, aliceSession.UserID)
	if len(alice) != 1 || !alice[0].Completed || alice[0].Title != "renamed" {
		t.Fatalf("expected applied patch, got %+v", alice)
	}
	bob := svc.List(ctx, bobSession.UserID)
	if len(bob) != 1 || bob[0].Completed {
		t.Fatalf("bob's task must be untouched, got %+v", bob)
	}
}

func TestBulkUpdateNoChangesDoesNotPersist(t *testing.T) {
	t.Parallel()

	svc := newTestTaskService(t)
	ctx := context.Background()

	done := true
	if err := svc.BulkUpdate(ctx, aliceSession, []TaskPatch{{ID: "missing", Completed: &done}}); err != nil {
		t.Fatalf("bulk update with no matches must succeed: %v", err)
	}
}
