package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"soundcatalog/model"
)

// SearchField 搜索匹配的字段
type SearchField int

const (
	FieldTitle SearchField = iota
	FieldAlbum
	FieldArtist
)

func (f SearchField) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldAlbum:
		return "album"
	case FieldArtist:
		return "artist"
	default:
		return fmt.Sprintf("SearchField(%d)", int(f))
	}
}

// ParseSearchField 解析 "title"、"album"、"artist"（不区分大小写）
func ParseSearchField(s string) (SearchField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title", "":
		return FieldTitle, nil
	case "album":
		return FieldAlbum, nil
	case "artist":
		return FieldArtist, nil
	}
	return 0, fmt.Errorf("unknown search field %q", s)
}

func (f SearchField) value(t model.Track) string {
	switch f {
	case FieldAlbum:
		return t.Album
	case FieldArtist:
		return t.Artist
	default:
		return t.Title
	}
}

// Search 在指定字段上做不区分大小写的子串匹配，结果按导入顺序排列。
// 大小写折叠与系统 locale 无关。
func (p *Provider) Search(field SearchField, query string) []model.Track {
	result := []model.Track{}
	if !p.IsInitialized() {
		return result
	}
	// Caser 不能并发使用，每次调用单独创建
	fold := cases.Fold()
	q := fold.String(query)
	for _, t := range p.store.All() {
		if strings.Contains(fold.String(field.value(t)), q) {
			result = append(result, t)
		}
	}
	return result
}

func (p *Provider) SearchByTitle(query string) []model.Track {
	return p.Search(FieldTitle, query)
}

func (p *Provider) SearchByAlbum(query string) []model.Track {
	return p.Search(FieldAlbum, query)
}

func (p *Provider) SearchByArtist(query string) []model.Track {
	return p.Search(FieldArtist, query)
}
