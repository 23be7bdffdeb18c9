package roster

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/clock"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
	redisclient "github.com/Roll20/roll20-beacon-sheets-sub000/internal/redis"
)

const (
	entryKeyPrefix     = "roster:"
	sessionIndexSuffix = ":index"
)

// RedisConfig contains configuration for the Redis roster store
type RedisConfig struct {
	Client      redisclient.Client
	IDGenerator idgen.Generator
	// Clock defaults to the system clock
	Clock clock.Clock
	// TTL bounds how long a session's roster survives without activity.
	// Zero means no expiry.
	TTL time.Duration
}

// Validate validates the RedisConfig and sets defaults if not provided
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.IDGenerator == nil {
		return errors.InvalidArgument("id generator cannot be nil")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return nil
}

type redisRepository struct {
	client    redisclient.Client
	generator idgen.Generator
	clock     clock.Clock
	ttl       time.Duration
}

// NewRedis creates a new Redis-backed roster store
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{
		client:    cfg.Client,
		generator: cfg.IDGenerator,
		clock:     cfg.Clock,
		ttl:       cfg.TTL,
	}, nil
}

// entryKey is "roster:{session}:{id}"
func entryKey(sessionID, id string) string {
	return entryKeyPrefix + sessionID + ":" + id
}

// indexKey is "roster:{session}:index", a set of entry ids
func indexKey(sessionID string) string {
	return entryKeyPrefix + sessionID + sessionIndexSuffix
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("entry name cannot be empty")
	}

	entry := &Entry{
		ID:                r.generator.Generate(),
		SessionID:         input.SessionID,
		Name:              input.Name,
		Monster:           input.Monster,
		Replace:           input.Replace,
		TargetCharacterID: input.TargetCharacterID,
		TagGroupID:        input.TagGroupID,
		EffectContainerID: input.EffectContainerID,
		SpellSourceIDs:    append([]string(nil), input.SpellSourceIDs...),
		CreatedAt:         r.clock.Now().Unix(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal roster entry")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, entryKey(entry.SessionID, entry.ID), data, r.ttl)
	pipe.SAdd(ctx, indexKey(entry.SessionID), entry.ID)
	if r.ttl > 0 {
		pipe.Expire(ctx, indexKey(entry.SessionID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create roster entry")
	}

	return &CreateOutput{Entry: entry}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument("entry ID cannot be empty")
	}

	data, err := r.client.Get(ctx, entryKey(input.SessionID, input.ID)).Bytes()
	if err != nil {
		if stderrors.Is(err, goredis.Nil) {
			return nil, errors.NotFoundf("roster entry %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get roster entry")
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal roster entry")
	}
	return &GetOutput{Entry: &entry}, nil
}

func (r *redisRepository) ListBySession(ctx context.Context, input ListBySessionInput) (*ListBySessionOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	ids, err := r.client.SMembers(ctx, indexKey(input.SessionID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read roster index")
	}

	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{SessionID: input.SessionID, ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				// Expired entry still in the index
				continue
			}
			return nil, err
		}
		entries = append(entries, out.Entry)
	}
	return &ListBySessionOutput{Entries: entries}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument("entry ID cannot be empty")
	}

	removed, err := r.client.Del(ctx, entryKey(input.SessionID, input.ID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete roster entry")
	}
	if removed == 0 {
		return nil, errors.NotFoundf("roster entry %s not found", input.ID)
	}
	r.client.SRem(ctx, indexKey(input.SessionID), input.ID)

	return &DeleteOutput{}, nil
}
