package app

import (
	"context"
	"log/slog"

	"walletVolumeApp/config"
	"walletVolumeApp/internal/domain/repository"
	"walletVolumeApp/internal/domain/service"
	"walletVolumeApp/internal/domain/useCases"
	ws "walletVolumeApp/internal/handlers/websocket"
	"walletVolumeApp/internal/infrastructure/alchemy"
	redisrepo "walletVolumeApp/internal/infrastructure/cache"
	"walletVolumeApp/internal/infrastructure/queue"
	chrepo "walletVolumeApp/internal/infrastructure/storage"
	"walletVolumeApp/internal/infrastructure/thegraph"
)

// AppContext holds all app dependencies
type AppContext struct {
	Config        *config.Config
	VolumeService *service.WalletVolumeService
	Analyzer      useCases.WalletAnalyzer
	Broadcaster   *ws.WebSocketBroadcaster

	redisRepo      *redisrepo.RedisRepository
	clickhouseRepo *chrepo.ClickHouseRepository
	publisher      *queue.KafkaPublisher
	log            *slog.Logger
}

// NewApp initializes the app context with all dependencies
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*AppContext, error) {
	app := &AppContext{Config: cfg, log: log}

	// External providers
	alchemyClient := alchemy.NewClient(cfg.AlchemyURL(), cfg.NativeTokenAddress)
	graphClient := thegraph.NewClient(cfg.SubgraphURL())
	app.Analyzer = alchemyClient
	log.Info("Provider clients initialized")

	// Cache implementation (Redis)
	app.redisRepo = redisrepo.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	var volumeCache repository.VolumeCache = app.redisRepo
	log.Info("Redis cache initialized")

	// Try to initialize persistent storage implementation (ClickHouse)
	var volumeStorage repository.VolumePersistence
	chConfig := chrepo.ClickHouseConfig{
		Addr:     cfg.ClickhouseAddr,
		Username: cfg.ClickhouseUsername,
		Password: cfg.ClickhousePassword,
		Timeout:  cfg.ClickhouseTimeout,
	}
	clickhouseRepo, err := chrepo.NewClickHouseRepository(chConfig)
	if err != nil {
		log.Warn("Failed to connect to ClickHouse, continuing with Redis only", "err", err)
	} else {
		app.clickhouseRepo = clickhouseRepo
		volumeStorage = clickhouseRepo
		log.Info("ClickHouse persistent storage initialized")
	}

	// Optional Kafka publisher for downstream consumers
	var volumePublisher repository.VolumePublisher
	app.publisher = queue.NewKafkaPublisher(queue.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	if app.publisher != nil {
		volumePublisher = app.publisher
		log.Info("Kafka volume publisher initialized")
	}

	// Core pipeline: one price cache per process, handed to the resolver
	priceCache := service.NewPriceCache()
	resolver := service.NewTokenPriceResolver(priceCache, graphClient, service.PriceResolverConfig{
		Stablecoins:  cfg.Stablecoins,
		NativeToken:  cfg.NativeTokenAddress,
		WrappedToken: cfg.WrappedTokenAddress,
		LookbackDays: cfg.PriceLookbackDays,
	}, log)
	normalizer := service.NewTransferNormalizer(alchemyClient, alchemyClient, cfg.NativeTokenAddress, log)
	aggregator := service.NewVolumeAggregator(normalizer, resolver, log)

	// Setup broadcaster
	app.Broadcaster = ws.NewWebSocketBroadcaster()

	app.VolumeService = service.NewWalletVolumeService(
		cfg.MasterWallet,
		alchemyClient,
		aggregator,
		volumeStorage,
		volumeCache,
		volumePublisher,
		app.Broadcaster,
		log,
	)
	log.Info("Volume service initialized with appropriate storage backends")

	return app, nil
}

// Cleanup performs graceful shutdown of all components
func (a *AppContext) Cleanup(ctx context.Context) {
	if a.publisher != nil {
		a.log.Info("Closing Kafka publisher...")
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("Error closing Kafka publisher", "err", err)
		}
	}

	if a.clickhouseRepo != nil {
		a.log.Info("Closing ClickHouse connection...")
		if err := a.clickhouseRepo.Close(); err != nil {
			a.log.Warn("Error closing ClickHouse connection", "err", err)
		}
	}

	if a.redisRepo != nil {
		a.log.Info("Closing Redis connection...")
		if err := a.redisRepo.Close(); err != nil {
			a.log.Warn("Error closing Redis connection", "err", err)
		}
	}

	a.log.Info("All resources cleaned up")
}
