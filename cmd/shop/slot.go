package main

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/dynamo"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/file"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/memory"
	cartpg "github.com/dwikikusuma/shoping-cart/internal/cart/infra/postgres"
	cartredis "github.com/dwikikusuma/shoping-cart/internal/cart/infra/redis"
	"github.com/dwikikusuma/shoping-cart/pkg/config"
	"github.com/dwikikusuma/shoping-cart/pkg/postgres"
)

// openSlot builds the persistence slot selected by CART_BACKEND. The
// returned close func releases any connection the slot holds.
func openSlot(ctx context.Context, cfg config.Config, log *zap.Logger) (cartapp.Slot, func(), error) {
	noop := func() {}
	key := cfg.Cart.SlotKey

	switch cfg.Cart.Backend {
	case config.BackendMemory:
		return memory.NewSlot(), noop, nil

	case config.BackendFile:
		slot, err := file.NewSlot(cfg.Cart.DataDir, key)
		if err != nil {
			return nil, nil, err
		}
		log.Info("cart slot", zap.String("backend", "file"), zap.String("path", slot.Path()))
		return slot, noop, nil

	case config.BackendRedis:
		rdb, err := cartredis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		log.Info("cart slot", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr))
		return cartredis.NewSlot(rdb, key), func() { _ = rdb.Close() }, nil

	case config.BackendPostgres:
		db, err := postgres.Open(postgres.Config{
			Host: cfg.Pg.Host,
			Port: cfg.Pg.Port,
			User: cfg.Pg.User,
			Pass: cfg.Pg.Password,
			DB:   cfg.Pg.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := cartpg.NewSlotRepo(db, key)
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		log.Info("cart slot", zap.String("backend", "postgres"), zap.String("host", cfg.Pg.Host))
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closeDB, nil

	case config.BackendDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.Dynamo.Region)
		if err != nil {
			return nil, nil, err
		}
		log.Info("cart slot", zap.String("backend", "dynamodb"), zap.String("table", cfg.Dynamo.Table))
		return dynamo.NewSlot(client, cfg.Dynamo.Table, key), noop, nil

	default:
		return nil, nil, errors.Errorf("unknown CART_BACKEND %q", cfg.Cart.Backend)
	}
}
