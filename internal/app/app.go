package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/nobita2041/beauty-salon-cms/internal/appointment"
	"github.com/nobita2041/beauty-salon-cms/internal/catalog"
	"github.com/nobita2041/beauty-salon-cms/internal/config"
	"github.com/nobita2041/beauty-salon-cms/internal/customer"
	"github.com/nobita2041/beauty-salon-cms/internal/dashboard"
	"github.com/nobita2041/beauty-salon-cms/internal/database"
	"github.com/nobita2041/beauty-salon-cms/internal/handler"
	"github.com/nobita2041/beauty-salon-cms/internal/history"
	"github.com/nobita2041/beauty-salon-cms/internal/logger"
	"github.com/nobita2041/beauty-salon-cms/internal/metrics"
	"github.com/nobita2041/beauty-salon-cms/internal/middleware"
	"github.com/nobita2041/beauty-salon-cms/internal/repository"
	"github.com/nobita2041/beauty-salon-cms/internal/security"
	"github.com/nobita2041/beauty-salon-cms/internal/server"
	"github.com/nobita2041/beauty-salon-cms/internal/tracing"
)

// serviceName はトレースとログに記録するサービス名。
const serviceName = "beauty-salon-cms"

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップしてから環境変数のConfigを読み込み、ログレベルを反映する。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. ログレベルの反映
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		slog.Warn("invalid LOG_LEVEL, falling back to info", slog.String("error", err.Error()))
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(fmt.Sprintf("http://localhost:%s/health", port))
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("timezone", cfg.Timezone.String()),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// ctxがキャンセルされる（SIGINT/SIGTERM）とグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	// 1. トレーシング
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.OTelEnabled,
		ServiceName: serviceName,
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSamplingRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	// 2. DB接続
	db, err := database.Open(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	// 3. レート制限
	general, mutation, closeLimiters, err := newRateLimiters(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up rate limiters: %w", err)
	}
	defer closeLimiters()

	// 4. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 5. ルーターの構築
	router := newRouter(db, cfg, &handler.RouterDeps{
		Logger:          slog.Default(),
		Metrics:         collector,
		GeneralLimiter:  general,
		MutationLimiter: mutation,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		HealthChecker:   db,
		MetricsHandler:  metrics.Handler(registry),
	})

	// 6. HTTPサーバーの起動
	srv := server.New(server.Config{
		Port:           cfg.ServerPort,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, tracing.NewHTTPHandler(router, serviceName))
	if err := srv.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down API server...")
	case err := <-srv.Done():
		if err != nil {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// newRouter はリポジトリ・サービスを組み立て、depsに設定してルーターを返す。
// depsのサービス以外の項目は呼び出し側で設定する。
func newRouter(db *sql.DB, cfg *config.Config, deps *handler.RouterDeps) http.Handler {
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NopCollector{}
	}

	// リポジトリ
	customerRepo := repository.NewPostgresCustomerRepo(db)
	serviceRepo := repository.NewPostgresServiceRepo(db)
	appointmentRepo := repository.NewPostgresAppointmentRepo(db)
	historyRepo := repository.NewPostgresServiceHistoryRepo(db)

	// ドメインサービス
	sanitizer := security.NewTextSanitizer()
	deps.CustomerService = customer.NewService(customerRepo, sanitizer, collector)
	deps.CatalogService = catalog.NewService(serviceRepo, sanitizer)
	deps.AppointmentService = appointment.NewService(appointmentRepo, sanitizer, collector)
	deps.HistoryService = history.NewService(historyRepo, sanitizer, collector)
	deps.DashboardService = dashboard.NewService(customerRepo, appointmentRepo, historyRepo, cfg.Timezone)

	return handler.NewRouter(deps)
}

// newRateLimiters は全般・ミューテーション用のレートリミッターを生成する。
// REDIS_URLが設定されている場合は複数インスタンスで上限を共有するRedis実装を使う。
// 上限が0以下の制限は無効（nil）とする。
func newRateLimiters(ctx context.Context, cfg *config.Config) (general, mutation middleware.KeyLimiter, closeFn func(), err error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// 制限はフェイルオープンのため起動は継続する
			slog.Warn("redis unreachable; rate limiting will fail open", slog.String("error", err.Error()))
		}
		if cfg.RateLimitGeneral > 0 {
			general = middleware.NewRedisRateLimiter(rdb, cfg.RateLimitGeneral, time.Minute, "salon:rl")
		}
		if cfg.RateLimitMutation > 0 {
			mutation = middleware.NewRedisRateLimiter(rdb, cfg.RateLimitMutation, time.Minute, "salon:rl")
		}
		slog.Info("using redis rate limiter")
		return general, mutation, func() { rdb.Close() }, nil
	}

	var stops []func()
	if cfg.RateLimitGeneral > 0 {
		l := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitGeneral))
		general = l
		stops = append(stops, l.Stop)
	}
	if cfg.RateLimitMutation > 0 {
		l := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitMutation))
		mutation = l
		stops = append(stops, l.Stop)
	}
	return general, mutation, func() {
		for _, stop := range stops {
			stop()
		}
	}, nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(healthURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(healthURL)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
