package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"daydreams-server/internal/deck"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check
var _ DeckStateRepository = (*redisDeckStateRepository)(nil)

// redisDeckStateRepository хранит состояние колоды в Redis.
// Состояние восстановимо (при потере колода просто перетасуется заново),
// поэтому Redis здесь уместнее Postgres.
type redisDeckStateRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisDeckStateRepository создает Redis-репозиторий состояния колоды.
func NewRedisDeckStateRepository(client *redis.Client, logger *zap.Logger) DeckStateRepository {
	return &redisDeckStateRepository{
		client: client,
		logger: logger.Named("RedisDeckStateRepo"),
	}
}

func deckStateKey(partnershipID uuid.UUID) string {
	return fmt.Sprintf("deck_state:%s", partnershipID.String())
}

func (r *redisDeckStateRepository) Get(ctx context.Context, partnershipID uuid.UUID) (*deck.State, error) {
	key := deckStateKey(partnershipID)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDeckStateNotFound
		}
		r.logger.Error("Failed to get deck state from redis", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("redis error getting deck state: %w", err)
	}

	var state deck.State
	if err := json.Unmarshal(raw, &state); err != nil {
		// Поврежденное состояние трактуем как отсутствующее: колода пересоберется
		r.logger.Warn("Corrupted deck state in redis, treating as missing",
			zap.String("key", key), zap.Error(err))
		return nil, ErrDeckStateNotFound
	}
	return &state, nil
}

func (r *redisDeckStateRepository) Save(ctx context.Context, partnershipID uuid.UUID, state *deck.State) error {
	key := deckStateKey(partnershipID)
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal deck state: %w", err)
	}
	// Без TTL: состояние живет, пока живет партнерство
	if err := r.client.Set(ctx, key, raw, 0).Err(); err != nil {
		r.logger.Error("Failed to save deck state to redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis error saving deck state: %w", err)
	}
	r.logger.Debug("Deck state saved",
		zap.String("partnershipID", partnershipID.String()),
		zap.Int("cursor", state.Cursor))
	return nil
}

func (r *redisDeckStateRepository) Delete(ctx context.Context, partnershipID uuid.UUID) error {
	key := deckStateKey(partnershipID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete deck state from redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis error deleting deck state: %w", err)
	}
	return nil
}
