package store

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nft1025/task/internal/domain"
)

// FileStore is the alternate persistence variant: the whole aggregate lives
// in one JSON file in the working directory, read and written wholesale.
// Derived views are computed in memory on demand. A process-local mutex
// serializes access; there is no locking between process instances.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

func NewFile(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

func (s *FileStore) Read(ctx context.Context) (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads the file, reinitializing to the empty shape on absence or
// structural invalidity. Callers must hold the mutex.
func (s *FileStore) load() (Data, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.reset()
	}
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("data file unreadable, serving empty aggregate")
		return emptyData(), nil
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil || !data.valid() {
		s.log.Warn().Str("path", s.path).Msg("invalid data file, reinitializing")
		return s.reset()
	}
	return data, nil
}

func (s *FileStore) reset() (Data, error) {
	data := emptyData()
	if err := s.save(data); err != nil {
		s.log.Warn().Err(err).Msg("could not initialize data file")
	}
	return data, nil
}

func (s *FileStore) save(data Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

func (s *FileStore) Write(ctx context.Context, data Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(data); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("data file write failed")
		return wrapPersist(err)
	}
	return nil
}

func (s *FileStore) UserTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	if userID == "" {
		return []domain.Task{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.tasksFor(userID), nil
}

func (s *FileStore) SetUserTasks(ctx context.Context, userID string, tasks []domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return wrapPersist(err)
	}
	data.replaceUserTasks(userID, tasks)
	if err := s.save(data); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("task write failed")
		return wrapPersist(err)
	}
	return nil
}

func (s *FileStore) Users(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data.Users, nil
}

func (s *FileStore) AddUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return wrapPersist(err)
	}
	data.Users = append(data.Users, user)
	if err := s.save(data); err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("user write failed")
		return wrapPersist(err)
	}
	return nil
}

func (s *FileStore) FindUser(ctx context.Context, username string) (domain.User, bool, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return domain.User{}, false, err
	}
	u, ok := findUser(users, username)
	return u, ok, nil
}

func (s *FileStore) Counts(ctx context.Context) (int, int, error) {
	data, err := s.Read(ctx)
	if err != nil {
		return 0, 0, err
	}
	return len(data.Users), len(data.Tasks), nil
}

// Ping verifies the data file's directory is writable enough to persist.
func (s *FileStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		_, err := s.reset()
		return err
	} else if err != nil {
		return err
	}
	return nil
}
