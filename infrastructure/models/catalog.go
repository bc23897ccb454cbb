package models

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AzielCF/az-console/agentwizard/domain/draft"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

type Model struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Supported bool   `json:"supported"` // selectable in the Basics step
}

// Lister returns raw model ids from one provider.
type Lister func(ctx context.Context) ([]string, error)

type Config struct {
	OpenAIKey string
	GeminiKey string
	Discover  bool
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// Catalog merges the static model list with ids discovered from providers.
type Catalog struct {
	listers map[string]Lister
	timeout time.Duration
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	cached   []Model
	cachedAt time.Time
}

func NewCatalog(cfg Config) *Catalog {
	c := &Catalog{
		listers: map[string]Lister{},
		timeout: cfg.Timeout,
		ttl:     cfg.CacheTTL,
		now:     time.Now,
	}
	if c.timeout <= 0 {
		c.timeout = 5 * time.Second
	}
	if c.ttl <= 0 {
		c.ttl = 10 * time.Minute
	}
	if cfg.Discover {
		if cfg.OpenAIKey != "" {
			c.listers["openai"] = OpenAILister(cfg.OpenAIKey)
		}
		if cfg.GeminiKey != "" {
			c.listers["gemini"] = GeminiLister(cfg.GeminiKey)
		}
	}
	return c
}

// WithLister registers an extra provider. Used by tests and custom setups.
func (c *Catalog) WithLister(provider string, l Lister) *Catalog {
	c.listers[provider] = l
	return c
}

func providerOf(id string) string {
	switch {
	case strings.HasPrefix(id, "gpt-"):
		return "openai"
	case strings.HasPrefix(id, "claude-"):
		return "anthropic"
	case strings.HasPrefix(id, "gemini-"):
		return "gemini"
	}
	return "unknown"
}

func Static() []Model {
	out := make([]Model, 0, len(draft.SupportedModels))
	for _, m := range draft.SupportedModels {
		out = append(out, Model{ID: string(m), Provider: providerOf(string(m)), Supported: true})
	}
	return out
}

// List returns the static models first, then discovered ones sorted by id.
// Provider failures are logged and skipped.
func (c *Catalog) List(ctx context.Context) []Model {
	if len(c.listers) == 0 {
		return Static()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != nil && c.now().Sub(c.cachedAt) < c.ttl {
		return append([]Model{}, c.cached...)
	}

	out := Static()
	seen := make(map[string]bool, len(out))
	for _, m := range out {
		seen[m.ID] = true
	}

	var extra []Model
	for provider, list := range c.listers {
		lctx, cancel := context.WithTimeout(ctx, c.timeout)
		ids, err := list(lctx)
		cancel()
		if err != nil {
			logrus.Warnf("[MODELS] %s discovery failed: %v", provider, err)
			continue
		}
		for _, id := range ids {
			id = strings.TrimPrefix(id, "models/")
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			extra = append(extra, Model{ID: id, Provider: provider})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].ID < extra[j].ID })
	out = append(out, extra...)

	c.cached = out
	c.cachedAt = c.now()
	return append([]Model{}, out...)
}

func OpenAILister(apiKey string) Lister {
	return func(ctx context.Context) ([]string, error) {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		page, err := client.Models.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("openai models: %w", err)
		}
		ids := make([]string, 0, len(page.Data))
		for _, m := range page.Data {
			if strings.HasPrefix(m.ID, "gpt-") {
				ids = append(ids, m.ID)
			}
		}
		return ids, nil
	}
}

func GeminiLister(apiKey string) Lister {
	return func(ctx context.Context) ([]string, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		page, err := client.Models.List(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("gemini models: %w", err)
		}
		ids := make([]string, 0, len(page.Items))
		for _, m := range page.Items {
			if m != nil && strings.Contains(m.Name, "gemini-") {
				ids = append(ids, m.Name)
			}
		}
		return ids, nil
	}
}
