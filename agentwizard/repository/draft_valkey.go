package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AzielCF/az-console/infrastructure/valkey"
	valkeylib "github.com/valkey-io/valkey-go"
)

// DraftValkeyCache implements agent.IDraftCache using Valkey. Expiration is
// handled by the key TTL.
type DraftValkeyCache struct {
	client *valkey.Client
	prefix string
}

func NewDraftValkeyCache(client *valkey.Client) *DraftValkeyCache {
	return &DraftValkeyCache{
		client: client,
		prefix: client.Key("wizard_draft") + ":",
	}
}

func (s *DraftValkeyCache) fullKey(draftID string) string {
	return s.prefix + draftID
}

func (s *DraftValkeyCache) inner() valkeylib.Client {
	return s.client.Inner()
}

func (s *DraftValkeyCache) Save(ctx context.Context, draftID string, data []byte, ttl time.Duration) error {
	builder := s.inner().B().Set().Key(s.fullKey(draftID)).Value(string(data))

	var err error
	if ttl > 0 {
		err = s.inner().Do(ctx, builder.Ex(ttl).Build()).Error()
	} else {
		err = s.inner().Do(ctx, builder.Build()).Error()
	}
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *DraftValkeyCache) Get(ctx context.Context, draftID string) ([]byte, error) {
	cmd := s.inner().B().Get().Key(s.fullKey(draftID)).Build()

	data, err := s.inner().Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return data, nil
}

func (s *DraftValkeyCache) Delete(ctx context.Context, draftID string) error {
	cmd := s.inner().B().Del().Key(s.fullKey(draftID)).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
