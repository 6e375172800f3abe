// AngelaMos | 2026
// state.go

package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/partnerdesk/agreements-api/internal/core"
)

const (
	stateKeyPrefix = "auth:state:"
	stateTTL       = 10 * time.Minute
)

// StateStore issues and redeems single-use OAuth state tokens. Tokens live
// in Redis with a short TTL and are consumed on validation, so a replayed
// callback fails.
type StateStore struct {
	client *redis.Client
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

func (s *StateStore) Issue(ctx context.Context) (string, error) {
	token, err := core.GenerateStateToken()
	if err != nil {
		return "", err
	}

	err = s.client.Set(ctx, stateKeyPrefix+token, "1", stateTTL).Err()
	if err != nil {
		return "", fmt.Errorf("store state token: %w", err)
	}

	return token, nil
}

func (s *StateStore) Redeem(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("missing state: %w", core.ErrUnauthorized)
	}

	deleted, err := s.client.Del(ctx, stateKeyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("redeem state token: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf(
			"unknown or expired state: %w",
			core.ErrUnauthorized,
		)
	}

	return nil
}
