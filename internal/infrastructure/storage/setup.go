package storage

import (
	"context"
	"time"

	"inkdrop-backend/internal/config"

	"github.com/rs/zerolog/log"
)

// NewResolverFromConfig builds every configured backend and picks the upload
// chain once: primary (+ secondary fallback), else secondary, else local disk.
// The local backend is always registered so legacy /uploads URLs resolve.
func NewResolverFromConfig(ctx context.Context, cfg config.StorageConfig, opts ...Option) (*Resolver, error) {
	local, err := NewLocalBackend(cfg.Local.Dir, cfg.Local.PublicPath)
	if err != nil {
		return nil, err
	}

	var primary, secondary Backend
	if cfg.Primary.Configured() {
		b, err := NewMinIOBackend(ctx, cfg.Primary)
		if err != nil {
			log.Error().Err(err).Str("endpoint", cfg.Primary.Endpoint).Msg("Primary storage unavailable")
		} else {
			primary = b
		}
	}
	if cfg.Secondary.Configured() {
		b, err := NewS3Backend(ctx, cfg.Secondary)
		if err != nil {
			log.Error().Err(err).Str("bucket", cfg.Secondary.Bucket).Msg("Secondary storage unavailable")
		} else {
			secondary = b
		}
	}

	chain := SelectChain(primary, secondary, local)
	names := make([]string, len(chain))
	for i, b := range chain {
		names[i] = b.Name()
	}
	log.Info().Strs("upload_chain", names).Msg("Storage backends selected")

	opts = append([]Option{WithProber(NewHTTPProber(5 * time.Second))}, opts...)
	return NewResolver(chain, []Backend{local}, opts...)
}

// SelectChain applies the backend selection policy. nil means not configured.
func SelectChain(primary, secondary, local Backend) []Backend {
	switch {
	case primary != nil && secondary != nil:
		return []Backend{primary, secondary}
	case primary != nil:
		return []Backend{primary}
	case secondary != nil:
		return []Backend{secondary}
	default:
		return []Backend{local}
	}
}
