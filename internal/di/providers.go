package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"CoinSight/internal/domain/repository"
	domsvc "CoinSight/internal/domain/service"
	"CoinSight/internal/handler/api"
	mid "CoinSight/internal/middleware"
	internalrepo "CoinSight/internal/repository"
	icache "CoinSight/internal/service/cache"
	"CoinSight/internal/service/okx"
	"CoinSight/internal/service/ratelimit"
	"CoinSight/internal/services/forecast"
	"CoinSight/internal/services/indicators"
	"CoinSight/internal/usecase"
	pkgcache "CoinSight/pkg/cache"
	pkgch "CoinSight/pkg/clickhouse"
	"CoinSight/pkg/config"
	pkghttp "CoinSight/pkg/http"
	pkgkafka "CoinSight/pkg/kafka"
	applogger "CoinSight/pkg/logger"
	"CoinSight/pkg/metrics"
	pkgqueue "CoinSight/pkg/queue"
	"CoinSight/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStore creates the ClickHouse bar store and ensures its schema.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) (repository.BarStore, error) {
	store := internalrepo.NewClickHouseBarStore(chClient, cfg.ClickHouse.Database)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("bar store schema: %w", err)
	}
	return store, nil
}

// ProvidePublisher creates the Kafka publisher for bars and reports.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.BarsTopic, cfg.Kafka.ReportsTopic)
}

// ProvideCandleStream creates the OKX WebSocket candle stream.
func ProvideCandleStream(cfg *config.Config) repository.CandleStream {
	return okx.New(
		cfg.OKX.WebSocketURL,
		cfg.OKX.Channel,
		cfg.OKX.Symbols,
		cfg.OKX.ReconnectDelay,
		cfg.OKX.PingInterval,
	)
}

// ProvideKafkaBarsHandler registers the handler for the bars topic.
func ProvideKafkaBarsHandler(store repository.BarStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.BarsTopic, store, m)
}

// ProvideBarProcessor creates the export processor use case.
func ProvideBarProcessor(
	pub repository.Publisher,
	store repository.BarStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.BarProcessor {
	return usecase.NewBarProcessor(
		pub,
		store,
		m,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideBarCollector creates the stream collector use case.
func ProvideBarCollector(
	stream repository.CandleStream,
	processor *usecase.BarProcessor,
	m repository.Metrics,
) *usecase.BarCollector {
	// Middleware pipeline between WebSocket and the export backend
	pipe := mid.NewRealtimePipeline(processor, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewBarCollector(stream, processor, m, pipe)
}

// ProvideKeyedCache creates the bar cache backend, redis when configured.
func ProvideKeyedCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix("coinsight"),
	)
	if err != nil {
		return nil, err
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideBarSource creates the OKX REST source wrapped in the keyed cache.
func ProvideBarSource(cfg *config.Config, cache pkgcache.Service, l *applogger.Logger) repository.BarSource {
	httpClient := pkghttp.NewClient(pkghttp.WithTimeout(cfg.OKX.RequestTimeout))
	okxSource := internalrepo.NewOKXBarSource(httpClient, ratelimit.New(), cfg.OKX.RESTURL)
	okxSource.SetLogger(l)

	cached := internalrepo.NewCachedBarSource(okxSource, cache, cfg.Cache.BarsTTL)
	cached.SetLogger(l)
	return cached
}

// ProvideReportQueue creates the redis-backed report queue when redis is
// configured. The same client also feeds aggregated logs in production.
func ProvideReportQueue(
	cfg *config.Config,
	l *applogger.Logger,
	analyzer *usecase.Analyzer,
	pub repository.Publisher,
) *pkgqueue.RedisQueue {
	if !cfg.Cache.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})

	q := pkgqueue.NewRedisQueue(l, &pkgqueue.QueueConfig{
		Workers:    2,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, client, pkgqueue.ModeProducerConsumer, pkgqueue.WithKeyPrefix("coinsight:reports"))
	q.RegisterJob(usecase.NewReportJob(analyzer, pub))

	if cfg.Environment == "production" {
		logPub := pkgqueue.NewRedisPublisher(l, client, pkgqueue.WithKeyPrefix("coinsight:logs"))
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "logs.aggregated",
			Publisher:      logPub,
		})
	}
	return q
}

// ProvideForecaster creates the configured baseline price forecaster.
func ProvideForecaster(cfg *config.Config) domsvc.Forecaster {
	if cfg.Engine.Forecaster == "ar" {
		return forecast.NewAutoRegressive(5)
	}
	return forecast.NewLinearRegression()
}

// ProvideEngineParams converts configured engine settings to indicator params.
func ProvideEngineParams(cfg *config.Config) (indicators.Params, error) {
	p := indicators.Params{
		VolWindow:          cfg.Engine.VolWindow,
		DrawdownWindow:     cfg.Engine.DrawdownWindow,
		SharpeWindow:       cfg.Engine.SharpeWindow,
		SpreadWindow:       cfg.Engine.SpreadWindow,
		ShortWindow:        cfg.Engine.ShortWindow,
		LongWindow:         cfg.Engine.LongWindow,
		RegimeLowerPct:     cfg.Engine.RegimeLowerPct,
		RegimeUpperPct:     cfg.Engine.RegimeUpperPct,
		SpreadZBound:       cfg.Engine.SpreadZBound,
		CrashDrawdown:      cfg.Engine.CrashDrawdown,
		CrossoverLookback:  cfg.Engine.CrossoverLookback,
		RiskFreeRate:       cfg.Engine.RiskFreeRate,
		TradingDaysPerYear: float64(cfg.Engine.TradingDaysPerYear),
	}
	if err := p.Normalize(); err != nil {
		return indicators.Params{}, fmt.Errorf("engine params: %w", err)
	}
	return p, nil
}

// ProvideAnalyzer creates the analysis pipeline use case.
func ProvideAnalyzer(
	source repository.BarSource,
	forecaster domsvc.Forecaster,
	m repository.Metrics,
	params indicators.Params,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(source, forecaster, m, params)
}

// ProvideBarsUseCase creates the raw bars use case.
func ProvideBarsUseCase(source repository.BarSource) *usecase.BarsUseCase {
	return usecase.NewBarsUseCase(source)
}

// ProvideHTTPHandler creates the API handler with response caching.
func ProvideHTTPHandler(
	l *applogger.Logger,
	analyzer *usecase.Analyzer,
	bars *usecase.BarsUseCase,
	forecaster domsvc.Forecaster,
	queue *pkgqueue.RedisQueue,
	cfg *config.Config,
) pkghttp.Handler {
	h := api.NewAnalysisHandler(l, analyzer, bars, forecaster)
	h.SetDefaults(cfg.Engine.Pair, cfg.Engine.ForecastSteps)
	if queue != nil {
		h.SetQueue(queue)
	}
	if cfg.Cache.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.BarCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBarsHandler,
	chClient *pkgch.Client,
	handler pkghttp.Handler,
	queue *pkgqueue.RedisQueue,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient, handler)
	if collector != nil {
		app.BarProc = collector.Processor()
	}
	app.Queue = queue
	return app
}
