package catalog

import (
	"sync/atomic"

	"soundcatalog/model"
)

// storeSnapshot 一次发布的完整目录。发布后不再修改，更新时整体替换。
// 流派索引和键集合放在同一个快照里，一次原子加载即可读到一致的两者。
type storeSnapshot struct {
	order   []string
	entries map[string]model.Track
	genres  *GenreIndex
}

var emptySnapshot = &storeSnapshot{entries: map[string]model.Track{}, genres: emptyGenreIndex}

// Store 曲目ID到当前 Track 的权威映射，连同派生的流派索引。
// 读操作只做原子加载，返回值拷贝；写操作由调用方串行化。
type Store struct {
	snap atomic.Pointer[storeSnapshot]
}

func NewStore() *Store {
	s := &Store{}
	s.snap.Store(emptySnapshot)
	return s
}

// Get 按ID取曲目
func (s *Store) Get(id string) (model.Track, bool) {
	t, ok := s.snap.Load().entries[id]
	return t, ok
}

// Len 当前曲目数
func (s *Store) Len() int {
	return len(s.snap.Load().order)
}

// IDs 按导入顺序返回所有ID
func (s *Store) IDs() []string {
	snap := s.snap.Load()
	ids := make([]string, len(snap.order))
	copy(ids, snap.order)
	return ids
}

// All 按导入顺序返回所有曲目的拷贝
func (s *Store) All() []model.Track {
	snap := s.snap.Load()
	tracks := make([]model.Track, 0, len(snap.order))
	for _, id := range snap.order {
		tracks = append(tracks, snap.entries[id])
	}
	return tracks
}

// Genres 当前快照的流派索引
func (s *Store) Genres() *GenreIndex {
	return s.snap.Load().genres
}

// buildSnapshot 以后写覆盖的方式组装新快照，重复ID保留首次出现的位置，
// 并基于结果构建流派索引。返回被覆盖的记录数。
func buildSnapshot(tracks []model.Track) (*storeSnapshot, int) {
	snap := &storeSnapshot{
		order:   make([]string, 0, len(tracks)),
		entries: make(map[string]model.Track, len(tracks)),
	}
	collisions := 0
	for _, t := range tracks {
		if _, ok := snap.entries[t.ID]; ok {
			collisions++
		} else {
			snap.order = append(snap.order, t.ID)
		}
		snap.entries[t.ID] = t
	}
	snap.genres = buildGenreIndex(snap.order, snap.entries)
	return snap, collisions
}

// install 原子替换整个快照
func (s *Store) install(snap *storeSnapshot) {
	s.snap.Store(snap)
}

// replace 基于当前快照生成替换了一首曲目的新快照并发布，返回旧值。
// 流派未变时沿用原有分组，否则重建索引。不存在时不做任何事。
func (s *Store) replace(id string, t model.Track) (model.Track, bool) {
	cur := s.snap.Load()
	old, ok := cur.entries[id]
	if !ok {
		return model.Track{}, false
	}
	t.ID = id

	entries := make(map[string]model.Track, len(cur.entries))
	for k, v := range cur.entries {
		entries[k] = v
	}
	entries[id] = t

	next := &storeSnapshot{order: cur.order, entries: entries}
	if old.Genre == t.Genre {
		next.genres = cur.genres.withEntries(entries)
	} else {
		next.genres = buildGenreIndex(cur.order, entries)
	}
	s.snap.Store(next)
	return old, true
}
