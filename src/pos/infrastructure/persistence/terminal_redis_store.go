package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pos/src/pos/domain/entity"
	"pos/src/pos/domain/port"

	"github.com/redis/go-redis/v9"
)

const terminalKeyPrefix = "pos:terminal:"

// TerminalRedisStore guarda la selección de cada terminal en Redis con TTL
type TerminalRedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTerminalRedisStore crea el store; ttl <= 0 no expira
func NewTerminalRedisStore(client *redis.Client, ttl time.Duration) port.TerminalStore {
	return &TerminalRedisStore{client: client, ttl: ttl}
}

func terminalKey(operatorID string) string {
	return terminalKeyPrefix + operatorID
}

func (s *TerminalRedisStore) Load(ctx context.Context, operatorID string) (*entity.TerminalSelection, error) {
	raw, err := s.client.Get(ctx, terminalKey(operatorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading terminal %s: %w", operatorID, err)
	}

	var selection entity.TerminalSelection
	if err := json.Unmarshal(raw, &selection); err != nil {
		return nil, fmt.Errorf("error decoding terminal %s: %w", operatorID, err)
	}
	return &selection, nil
}

func (s *TerminalRedisStore) Save(ctx context.Context, selection *entity.TerminalSelection) error {
	payload, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("error encoding terminal %s: %w", selection.OperatorID, err)
	}
	if err := s.client.Set(ctx, terminalKey(selection.OperatorID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("error saving terminal %s: %w", selection.OperatorID, err)
	}
	return nil
}

func (s *TerminalRedisStore) Delete(ctx context.Context, operatorID string) error {
	if err := s.client.Del(ctx, terminalKey(operatorID)).Err(); err != nil {
		return fmt.Errorf("error deleting terminal %s: %w", operatorID, err)
	}
	return nil
}
