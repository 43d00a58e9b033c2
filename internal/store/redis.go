package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/nft1025/task/internal/domain"
	"github.com/nft1025/task/internal/kv"
)

const (
	keyData      = "taskmanager:data"
	keyUsers     = "taskmanager:users"
	keyAllTasks  = "taskmanager:all_tasks"
	keyUserTasks = "taskmanager:tasks:"
	keyHealth    = "taskmanager:health"
	keyUserCount = "taskmanager:user_count"
	keyTaskCount = "taskmanager:task_count"
)

// RedisStore keeps the canonical aggregate and its derived views in the
// key-value store. Every mutation commits canonical plus derived keys in a
// single pipeline so readers never observe them diverged.
type RedisStore struct {
	kv    kv.Client
	codec kv.Codec
	ttl   time.Duration
	sf    singleflight.Group
	log   zerolog.Logger
}

// NewRedis returns a RedisStore. ttl bounds the derived-cache entries.
func NewRedis(client kv.Client, ttl time.Duration, log zerolog.Logger) *RedisStore {
	return &RedisStore{
		kv:    client,
		codec: kv.NewCodec(log),
		ttl:   ttl,
		log:   log,
	}
}

func (s *RedisStore) Read(ctx context.Context) (Data, error) {
	raw, err := s.kv.Get(ctx, keyData)
	if errors.Is(err, kv.ErrMiss) {
		return s.initialize(ctx), nil
	}
	if err != nil {
		// Availability over consistency for reads.
		s.log.Warn().Err(err).Msg("store unreachable, serving empty aggregate")
		return emptyData(), nil
	}

	var data Data
	if !s.codec.Decode(raw, &data) || !data.valid() {
		s.log.Warn().Msg("invalid aggregate shape, reinitializing")
		return s.initialize(ctx), nil
	}
	return data, nil
}

// initialize persists the empty shape across canonical and derived keys and
// returns it. Failures degrade to the empty aggregate; Read never errors.
func (s *RedisStore) initialize(ctx context.Context) Data {
	data := emptyData()
	if err := s.commit(ctx, data); err != nil {
		s.log.Warn().Err(err).Msg("could not initialize aggregate")
	}
	return data
}

func (s *RedisStore) Write(ctx context.Context, data Data) error {
	if err := s.commit(ctx, data); err != nil {
		s.log.Error().Err(err).Msg("aggregate write failed")
		return wrapPersist(err)
	}
	return nil
}

// commit is the single mutation path: canonical aggregate and every derived
// view go out in one pipeline.
func (s *RedisStore) commit(ctx context.Context, data Data) error {
	return s.kv.Pipeline(ctx, func(p kv.Pipe) {
		p.Set(keyData, s.codec.Encode(data), 0)
		p.Set(keyUsers, s.codec.Encode(data.Users), s.ttl)
		p.Set(keyAllTasks, s.codec.Encode(data.Tasks), s.ttl)
		p.Set(keyUserCount, strconv.Itoa(len(data.Users)), 0)
		p.Set(keyTaskCount, strconv.Itoa(len(data.Tasks)), 0)
		p.Set(keyHealth, time.Now().UTC().Format(time.RFC3339), s.ttl)
	})
}

func (s *RedisStore) UserTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	if userID == "" {
		return []domain.Task{}, nil
	}
	v, err, _ := s.sf.Do("tasks:"+userID, func() (any, error) {
		key := keyUserTasks + userID
		if raw, err := s.kv.Get(ctx, key); err == nil {
			var tasks []domain.Task
			if s.codec.Decode(raw, &tasks) {
				return tasks, nil
			}
		}
		data, err := s.Read(ctx)
		if err != nil {
			return nil, err
		}
		tasks := data.tasksFor(userID)
		if err := s.kv.Set(ctx, key, s.codec.Encode(tasks), s.ttl); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("task cache fill failed")
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Task), nil
}

func (s *RedisStore) SetUserTasks(ctx context.Context, userID string, tasks []domain.Task) error {
	data, err := s.Read(ctx)
	if err != nil {
		return wrapPersist(err)
	}
	data.replaceUserTasks(userID, tasks)

	err = s.kv.Pipeline(ctx, func(p kv.Pipe) {
		p.Set(keyUserTasks+userID, s.codec.Encode(tasks), s.ttl)
		p.Set(keyData, s.codec.Encode(data), 0)
		p.Set(keyAllTasks, s.codec.Encode(data.Tasks), s.ttl)
		p.Set(keyTaskCount, strconv.Itoa(len(data.Tasks)), 0)
		p.Set(keyHealth, time.Now().UTC().Format(time.RFC3339), s.ttl)
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("task write failed")
		return wrapPersist(err)
	}
	return nil
}

func (s *RedisStore) Users(ctx context.Context) ([]domain.User, error) {
	if raw, err := s.kv.Get(ctx, keyUsers); err == nil {
		var users []domain.User
		if s.codec.Decode(raw, &users) {
			return users, nil
		}
	}
	data, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, keyUsers, s.codec.Encode(data.Users), s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("user cache fill failed")
	}
	return data.Users, nil
}

func (s *RedisStore) AddUser(ctx context.Context, user domain.User) error {
	data, err := s.Read(ctx)
	if err != nil {
		return wrapPersist(err)
	}
	data.Users = append(data.Users, user)

	err = s.kv.Pipeline(ctx, func(p kv.Pipe) {
		p.Set(keyUsers, s.codec.Encode(data.Users), s.ttl)
		p.Set(keyUserCount, strconv.Itoa(len(data.Users)), 0)
		p.Set(keyData, s.codec.Encode(data), 0)
		p.Set(keyHealth, time.Now().UTC().Format(time.RFC3339), s.ttl)
	})
	if err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("user write failed")
		return wrapPersist(err)
	}
	return nil
}

func (s *RedisStore) FindUser(ctx context.Context, username string) (domain.User, bool, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return domain.User{}, false, err
	}
	u, ok := findUser(users, username)
	return u, ok, nil
}

func (s *RedisStore) Counts(ctx context.Context) (int, int, error) {
	users, err := s.counter(ctx, keyUserCount)
	if err != nil {
		return 0, 0, err
	}
	tasks, err := s.counter(ctx, keyTaskCount)
	if err != nil {
		return 0, 0, err
	}
	return users, tasks, nil
}

func (s *RedisStore) counter(ctx context.Context, key string) (int, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
