package auth

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/platform/logger"
)

// BearerPrefix is stripped from presented credentials. The match is case-sensitive.
const BearerPrefix = "Bearer "

// Public messages for authentication failures.
const (
	MsgAuthRequired = "Authentication required"
	MsgAuthFailed   = "Authentication failed"
	MsgTierRequired = "Insufficient permissions"
)

// SeedKeys returns the keys every registry starts with.
func SeedKeys() map[string]domain.Tier {
	return map[string]domain.Tier{
		"prod_key_abc123def456": domain.TierProduction,
		"prod_key_ghi789jkl012": domain.TierProduction,
		"dev_key_mno345pqr678":  domain.TierDevelopment,
		"test_key_stu901vwx234": domain.TierTesting,
	}
}

// Option configures a KeyRegistry.
type Option func(*KeyRegistry)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *KeyRegistry) { r.now = now }
}

// WithSeed replaces the initial key set.
func WithSeed(keys map[string]domain.Tier) Option {
	return func(r *KeyRegistry) { r.seed = keys }
}

// KeyRegistry is the process-lifetime set of API keys.
type KeyRegistry struct {
	mu     sync.Mutex
	keys   map[string]*domain.APIKey
	order  []string
	seed   map[string]domain.Tier
	now    func() time.Time
	logger *slog.Logger
}

// NewKeyRegistry creates a registry holding the seed keys.
func NewKeyRegistry(logger *slog.Logger, opts ...Option) *KeyRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &KeyRegistry{
		keys:   make(map[string]*domain.APIKey),
		seed:   SeedKeys(),
		now:    time.Now,
		logger: logger.With(slog.String("component", "key_registry")),
	}
	for _, opt := range opts {
		opt(r)
	}

	seeded := make([]string, 0, len(r.seed))
	for key := range r.seed {
		seeded = append(seeded, key)
	}
	// Map iteration order is random; keep listings stable.
	slices.Sort(seeded)

	createdAt := r.now().UTC()
	for _, key := range seeded {
		r.register(key, r.seed[key], createdAt)
	}
	return r
}

// Authenticate resolves a presented credential. An optional "Bearer " prefix
// is removed first. A successful call records the time of use.
func (r *KeyRegistry) Authenticate(ctx context.Context, credential string) (domain.APIKey, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if credential == "" {
		log.Warn("authentication failed: no api key provided")
		return domain.APIKey{}, domain.NewUnauthenticatedError(MsgAuthRequired, ErrMissingKey).
			WithDetail("Missing API key")
	}
	key := strings.TrimPrefix(credential, BearerPrefix)

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.keys[key]
	if !ok {
		log.Warn("authentication failed: invalid api key",
			slog.String("key_prefix", domain.KeyPrefix(key)+"..."))
		return domain.APIKey{}, domain.NewUnauthenticatedError(MsgAuthFailed, ErrInvalidKey).
			WithDetail("Invalid API key")
	}

	usedAt := r.now().UTC()
	record.LastUsed = &usedAt

	log.Debug("authenticated request", slog.String("tier", string(record.Tier)))
	return snapshot(record), nil
}

// RequireTier returns a Forbidden error unless key holds the production tier,
// the only tier allowed through tier-gated operations.
func RequireTier(key domain.APIKey) error {
	if key.Tier != domain.TierProduction {
		err := domain.NewForbiddenError(MsgTierRequired)
		err.Err = ErrInsufficientTier
		return err.WithDetail("Production API key required for this operation")
	}
	return nil
}

// Issue registers a new key for tier. An empty tier issues a development key.
func (r *KeyRegistry) Issue(ctx context.Context, tier domain.Tier) (domain.APIKey, error) {
	if tier == "" {
		tier = domain.TierDevelopment
	}
	if !tier.Valid() {
		return domain.APIKey{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var key string
	for {
		key = "key_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		if _, taken := r.keys[key]; !taken {
			break
		}
	}
	record := r.register(key, tier, r.now().UTC())

	logger.FromContextOrDefault(ctx, r.logger).Info("issued api key",
		slog.String("tier", string(tier)),
		slog.String("key_prefix", domain.KeyPrefix(key)+"..."))
	return snapshot(record), nil
}

// List returns every registered key in registration order.
func (r *KeyRegistry) List(ctx context.Context) []domain.APIKey {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]domain.APIKey, 0, len(r.order))
	for _, k := range r.order {
		keys = append(keys, snapshot(r.keys[k]))
	}
	return keys
}

// register must be called with r.mu held, or during construction.
func (r *KeyRegistry) register(key string, tier domain.Tier, createdAt time.Time) *domain.APIKey {
	record := &domain.APIKey{Key: key, Tier: tier, CreatedAt: createdAt}
	r.keys[key] = record
	r.order = append(r.order, key)
	return record
}

func snapshot(k *domain.APIKey) domain.APIKey {
	out := *k
	if k.LastUsed != nil {
		t := *k.LastUsed
		out.LastUsed = &t
	}
	return out
}
