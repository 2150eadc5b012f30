package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"soundcatalog/logger"
)

// FavoritePersister 收藏的持久化后端（Redis、MySQL），内存集合始终是读取来源
type FavoritePersister interface {
	LoadFavorites(ctx context.Context) ([]string, error)
	SaveFavorite(ctx context.Context, id string) error
	DeleteFavorite(ctx context.Context, id string) error
}

const persistTimeout = 3 * time.Second

// Favorites 收藏的曲目ID集合，与目录生命周期无关
type Favorites struct {
	mu        sync.RWMutex
	ids       map[string]struct{}
	persister FavoritePersister
}

// NewFavorites persister 可以为 nil
func NewFavorites(persister FavoritePersister) *Favorites {
	return &Favorites{
		ids:       make(map[string]struct{}),
		persister: persister,
	}
}

// Load 从持久化后端恢复收藏，与内存中已有的合并
func (f *Favorites) Load(ctx context.Context) error {
	if f.persister == nil {
		return nil
	}
	ids, err := f.persister.LoadFavorites(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	f.mu.Unlock()
	logger.Info("[Favorites] 已加载收藏", logger.Int("count", len(ids)))
	return nil
}

// Set 标记或取消收藏。持久化失败只记录日志，内存状态仍然生效。
func (f *Favorites) Set(id string, favorite bool) {
	f.mu.Lock()
	if favorite {
		f.ids[id] = struct{}{}
	} else {
		delete(f.ids, id)
	}
	f.mu.Unlock()

	if f.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if favorite {
		err = f.persister.SaveFavorite(ctx, id)
	} else {
		err = f.persister.DeleteFavorite(ctx, id)
	}
	if err != nil {
		logger.Warn("[Favorites] 持久化收藏失败",
			logger.String("trackID", id),
			logger.Bool("favorite", favorite),
			logger.ErrorField(err))
	}
}

func (f *Favorites) Contains(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ids[id]
	return ok
}

// IDs 已排序的收藏ID
func (f *Favorites) IDs() []string {
	f.mu.RLock()
	ids := make([]string, 0, len(f.ids))
	for id := range f.ids {
		ids = append(ids, id)
	}
	f.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
