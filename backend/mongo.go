package backend

import (
	"context"

	"go.uber.org/zap"

	"wanderplan/config"
	"wanderplan/planner"
)

// ========== MongoDB ==========

// OpenStore returns the saved-trips store for cfg and a close func. Without a
// Mongo URI trips stay in memory.
func OpenStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (planner.Store, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MongoURI == "" {
		log.Info("saved trips kept in memory")
		return planner.NewMemoryStore(), func() {}, nil
	}

	client, err := planner.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect", zap.Error(err))
		}
	}

	store, err := planner.NewMongoStore(ctx, client.Database(cfg.Database).Collection(cfg.Collection))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	log.Info("MongoDB connected", zap.String("database", cfg.Database), zap.String("collection", cfg.Collection))
	return store, closeFn, nil
}
