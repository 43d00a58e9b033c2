// Package store holds the canonical {users, tasks} aggregate and every
// derived view of it. All higher-level operations funnel through
// read-modify-write on the aggregate; derived views (user list, per-user
// task lists, counters) are rewritten on every mutation and can always be
// rebuilt from the aggregate.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nft1025/task/internal/domain"
)

// ErrPersist means a write could not be durably applied. Writes never
// silently degrade.
var ErrPersist = errors.New("store: persistence failed")

func wrapPersist(err error) error {
	return fmt.Errorf("%w: %v", ErrPersist, err)
}

// Data is the canonical aggregate, the single source of truth.
type Data struct {
	Users []domain.User `json:"users"`
	Tasks []domain.Task `json:"tasks"`
}

func emptyData() Data {
	return Data{Users: []domain.User{}, Tasks: []domain.Task{}}
}

// valid reports whether a decoded aggregate has the expected shape. Nil
// slices mean a missing or wrong-shaped field in the stored document.
func (d Data) valid() bool {
	return d.Users != nil && d.Tasks != nil
}

// tasksFor filters the aggregate to one user's tasks.
func (d Data) tasksFor(userID string) []domain.Task {
	out := []domain.Task{}
	for _, t := range d.Tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// replaceUserTasks removes userID's tasks from the aggregate and appends
// the supplied list.
func (d *Data) replaceUserTasks(userID string, tasks []domain.Task) {
	kept := make([]domain.Task, 0, len(d.Tasks)+len(tasks))
	for _, t := range d.Tasks {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	d.Tasks = append(kept, tasks...)
}

func findUser(users []domain.User, username string) (domain.User, bool) {
	want := strings.ToLower(strings.TrimSpace(username))
	for _, u := range users {
		if strings.ToLower(u.Username) == want {
			return u, true
		}
	}
	return domain.User{}, false
}

// Store is the persistence contract consumed by the services. Two
// implementations exist: Redis-backed (cache-first, derived views in the
// store) and file-backed (wholesale read/write of the aggregate).
type Store interface {
	// Read fetches the canonical aggregate. On absence or structural
	// invalidity it reinitializes to the empty shape and persists that
	// before returning it. When the store is unreachable it returns the
	// empty aggregate rather than an error.
	Read(ctx context.Context) (Data, error)
	// Write persists the aggregate and every derived view together.
	Write(ctx context.Context, data Data) error

	// UserTasks returns one user's tasks, cache-first where supported.
	UserTasks(ctx context.Context, userID string) ([]domain.Task, error)
	// SetUserTasks replaces that user's task subset and rewrites
	// canonical plus derived state.
	SetUserTasks(ctx context.Context, userID string, tasks []domain.Task) error

	// Users returns all users.
	Users(ctx context.Context) ([]domain.User, error)
	// AddUser appends a user and persists.
	AddUser(ctx context.Context, user domain.User) error
	// FindUser looks a user up by case-insensitive username.
	FindUser(ctx context.Context, username string) (domain.User, bool, error)

	// Counts reports the aggregate user and task totals.
	Counts(ctx context.Context) (users, tasks int, err error)
	// Ping probes reachability of the underlying store.
	Ping(ctx context.Context) error
}
