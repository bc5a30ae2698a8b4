package acquire

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"wanderplan/config"
	"wanderplan/gemini"
)

// FromConfig wires a router from cfg. Paths that cannot be configured are
// left nil so the router treats them as unusable; it never fails.
func FromConfig(ctx context.Context, cfg *config.Config, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}

	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		log.Warn("invalid mode, using direct", zap.String("mode", cfg.Mode))
		mode = ModeDirect
	}

	var remote Source
	if mode == ModeRemote && strings.TrimSpace(cfg.Remote.BaseURL) != "" {
		remote = NewRemoteClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	}

	var direct Source
	if client, err := DirectClient(ctx, cfg, log); err != nil {
		log.Info("direct path unavailable", zap.Error(err))
	} else {
		direct = client
	}

	return NewRouter(mode, remote, direct, log)
}

// DirectClient builds the in-process generation client, or ErrNotConfigured
// when no credential is set.
func DirectClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gemini.Client, error) {
	if !cfg.HasCredential() {
		return nil, ErrNotConfigured
	}
	gen, err := gemini.NewGenAIGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}
	return gemini.NewClient(gen, cfg.Gemini.Timeout, log), nil
}
