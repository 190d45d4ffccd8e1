package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/kafka"
	catalogapp "github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shoping-cart/internal/catalog/infra/static"
	checkoutapp "github.com/dwikikusuma/shoping-cart/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/shoping-cart/internal/checkout/infra/adapter"
	storefrontapp "github.com/dwikikusuma/shoping-cart/internal/storefront/app"
	storefronthttp "github.com/dwikikusuma/shoping-cart/internal/storefront/http"
	storefrontadapter "github.com/dwikikusuma/shoping-cart/internal/storefront/infra/adapter"
	"github.com/dwikikusuma/shoping-cart/pkg/config"
	"github.com/dwikikusuma/shoping-cart/pkg/logger"
	"github.com/dwikikusuma/shoping-cart/pkg/shutdown"
)

const serviceName = "shop"

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: serviceName, Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("shop stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("bye")
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background(), log)
	defer cancel()

	// Catalog
	catalogRepo, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	catalogSvc := catalogapp.NewService(catalogRepo)

	// Cart
	slot, closeSlot, err := openSlot(ctx, cfg, log)
	if err != nil {
		return errors.Wrap(err, "open cart slot")
	}
	defer closeSlot()

	cartSvc := cartapp.NewService(slot, cartapp.WithLogger(log.Named("cart")))
	if err := cartSvc.Load(ctx); err != nil {
		// The store starts empty and keeps working; later saves may succeed.
		log.Warn("cart load failed, starting empty", zap.Error(err))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewSyncProducer(ctx, cfg.Kafka.Brokers, log)
		if err != nil {
			return errors.Wrap(err, "kafka producer")
		}
		pub := kafka.NewPublisher(producer, cfg.Kafka.Topic, log.Named("kafka"))
		defer pub.Close()
		unsubscribe := cartSvc.Subscribe(pub.Listen)
		defer unsubscribe()
		log.Info("publishing cart events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// Checkout (adapters)
	checkoutSvc := checkoutapp.NewService(cartSvc, checkoutadapter.NewCatalogServiceReader(catalogSvc), 10, log.Named("checkout"))

	// Storefront
	live := storefronthttp.NewLiveSurface()
	ctrl := storefrontapp.NewController(cartSvc, storefrontadapter.NewCatalogServiceReader(catalogSvc), checkoutSvc, live, log.Named("storefront"))
	stop := ctrl.Start()
	defer stop()

	httpApp := storefronthttp.NewServer(ctrl, live, log.Named("http"), "Shopping Cart").App()
	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", grpcAddr)
	}
	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", zap.String("addr", httpAddr))
		if err := httpApp.Listen(httpAddr); err != nil {
			return errors.Wrap(err, "http serve")
		}
		return nil
	})

	g.Go(func() error {
		log.Info("grpc starting", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			return errors.Wrap(err, "grpc serve")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		healthSrv.Shutdown()

		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer stopCancel()

		if err := httpApp.ShutdownWithContext(stopCtx); err != nil {
			log.Error("http shutdown error", zap.Error(err))
		}
		gracefulStop(stopCtx, grpcServer, log)
		return nil
	})

	return g.Wait()
}

func openCatalog(cfg config.Config) (*static.ProductRepo, error) {
	if cfg.Catalog.Path != "" {
		return static.NewProductRepoFromFile(cfg.Catalog.Path)
	}
	return static.NewDefaultProductRepo()
}

func gracefulStop(ctx context.Context, srv *grpc.Server, log *zap.Logger) {
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		log.Warn("graceful stop timeout, forcing stop")
		srv.Stop()
	case <-stopped:
	}
}
