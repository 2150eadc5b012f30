package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soundcatalog/cache"
	"soundcatalog/config"
	"soundcatalog/core/catalog"
	"soundcatalog/core/soundcloud"
	"soundcatalog/db"
	"soundcatalog/logger"
	"soundcatalog/repository"

	"github.com/gorilla/mux"
)

// NewRouter 创建路由，外层包一层 CORS。
// 预检请求在路由匹配之前处理，否则 mux 会对只注册了 GET 的路径返回 405。
func NewRouter(h *CatalogHandler) http.Handler {
	router := mux.NewRouter()
	h.Routes(router)
	router.HandleFunc("/ws/catalog", h.HandleReadyWS)
	return withCORS(router)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewFavorites 按配置选择收藏的持久化后端，返回的 closer 用于释放连接
func NewFavorites(cfg *config.Config) (*catalog.Favorites, func(), error) {
	switch cfg.FavoritesBackend {
	case config.FavoritesRedis:
		client, err := cache.ConnectRedis(cfg)
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewFavorites(cache.NewRedisFavorites(client, cfg.RedisKey)), func() { client.Close() }, nil
	case config.FavoritesMySQL:
		gdb, err := db.ConnectGormDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewFavoriteRepository(gdb)
		if err := repo.Migrate(); err != nil {
			db.CloseGormDB(gdb)
			return nil, nil, fmt.Errorf("failed to migrate favorites: %w", err)
		}
		return catalog.NewFavorites(repo), func() { db.CloseGormDB(gdb) }, nil
	case config.FavoritesMemory, "":
		return catalog.NewFavorites(nil), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown favorites backend %q", cfg.FavoritesBackend)
}

// NewProvider 用配置里的远程目录创建 Provider
func NewProvider(cfg *config.Config, favorites *catalog.Favorites) *catalog.Provider {
	client := soundcloud.NewClient(cfg.CatalogBaseURL, cfg.CatalogClientID)
	client.SetLimit(cfg.CatalogLimit)
	return catalog.NewProvider(client, catalog.Options{
		APIKey:       cfg.CatalogClientID,
		FetchTimeout: cfg.CatalogFetchTimeout,
		Favorites:    favorites,
	})
}

// Start initializes and starts the HTTP server. It blocks until SIGINT/SIGTERM.
func Start(cfg *config.Config) error {
	favorites, closeFavorites, err := NewFavorites(cfg)
	if err != nil {
		return err
	}
	defer closeFavorites()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Second)
	if err := favorites.Load(loadCtx); err != nil {
		logger.Warn("[Server] 加载收藏失败，使用空集合", logger.ErrorField(err))
	}
	cancelLoad()

	provider := NewProvider(cfg, favorites)
	defer provider.Close()

	// 预热目录，失败后由后续请求重试
	provider.EnsureReady(cfg.CatalogQuery, func(success bool) {
		logger.Info("[Server] 目录预热结束", logger.Bool("success", success))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := NewCatalogHandler(provider, cfg.CatalogQuery)
	go watchQuery(ctx, cfg, provider, handler)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      NewRouter(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // websocket 等待就绪
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[Server] HTTP服务启动", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("[Server] 正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// watchQuery .env 中的 CATALOG_QUERY 变化时重新加载目录
func watchQuery(ctx context.Context, cfg *config.Config, provider *catalog.Provider, handler *CatalogHandler) {
	current := cfg.CatalogQuery
	err := config.Watch(ctx, ".env", func(next *config.Config) {
		if next.CatalogQuery == current {
			return
		}
		logger.Info("[Server] 搜索关键词已变更，重新加载目录",
			logger.String("from", current),
			logger.String("to", next.CatalogQuery))
		current = next.CatalogQuery
		handler.SetDefaultQuery(current)
		provider.Refresh(current, nil)
	})
	if err != nil {
		logger.Warn("[Server] 配置监听已停止", logger.ErrorField(err))
	}
}
