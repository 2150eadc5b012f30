package catalog

import (
	"sort"

	"soundcatalog/model"
)

// GenreIndex 流派到曲目ID列表的派生索引，绑定到某一个快照的曲目表。
// 构建完成后只读，通过整体替换更新。
type GenreIndex struct {
	genres  []string
	byGenre map[string][]string
	entries map[string]model.Track
}

var emptyGenreIndex = &GenreIndex{byGenre: map[string][]string{}, entries: map[string]model.Track{}}

// buildGenreIndex 全量重建，流派内的顺序与导入顺序一致
func buildGenreIndex(order []string, entries map[string]model.Track) *GenreIndex {
	idx := &GenreIndex{byGenre: make(map[string][]string), entries: entries}
	for _, id := range order {
		g := NormalizeGenre(entries[id].Genre)
		if _, ok := idx.byGenre[g]; !ok {
			idx.genres = append(idx.genres, g)
		}
		idx.byGenre[g] = append(idx.byGenre[g], id)
	}
	sort.Strings(idx.genres)
	return idx
}

// withEntries 分组不变，只换绑曲目表
func (idx *GenreIndex) withEntries(entries map[string]model.Track) *GenreIndex {
	return &GenreIndex{genres: idx.genres, byGenre: idx.byGenre, entries: entries}
}

// Genres 已排序的流派列表拷贝
func (idx *GenreIndex) Genres() []string {
	out := make([]string, len(idx.genres))
	copy(out, idx.genres)
	return out
}

// Tracks 某个流派下的曲目拷贝，未知流派返回空切片
func (idx *GenreIndex) Tracks(genre string) []model.Track {
	ids := idx.byGenre[genre]
	out := make([]model.Track, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.entries[id])
	}
	return out
}

// Len 流派数量
func (idx *GenreIndex) Len() int {
	return len(idx.genres)
}
