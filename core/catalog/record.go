package catalog

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/multierr"

	"soundcatalog/model"
)

const (
	// DefaultGenre 没有流派或流派只有一个字符时归入的分组
	DefaultGenre = "Mix Genre"

	// FallbackSourceURI 缺失或非远程播放地址时使用
	FallbackSourceURI = "http://storage.googleapis.com/automotive-media/Jazz_In_Paris.mp3"
	// FallbackArtworkURI 缺失或非远程封面时使用
	FallbackArtworkURI = "https://i1.sndcdn.com/artworks-000071463904-nhv9da-large.jpg"

	largeArtwork   = "large.jpg"
	croppedArtwork = "crop.jpg"
)

// isRemote 只接受 http/https 地址
func isRemote(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// NormalizeGenre 返回曲目实际归属的流派分组
func NormalizeGenre(genre string) string {
	if utf8.RuneCountInString(genre) <= 1 {
		return DefaultGenre
	}
	return genre
}

// TrackID 由播放地址和 API key 派生目录ID。不同记录回退到同一播放地址时会冲突。
func TrackID(sourceURI, apiKey string) string {
	return strconv.FormatUint(xxhash.Sum64String(sourceURI+"?client_id="+apiKey), 10)
}

// parseCount 缺失时为 1；非数字时返回 MalformedRecordError 并仍然给出 1
func parseCount(field string, v model.Text) (int64, error) {
	if !v.Present() {
		return 1, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
	if err != nil {
		return 1, &MalformedRecordError{Field: field, Value: v.Value, Err: err}
	}
	return n, nil
}

func canonicalSource(uri string) string {
	if !isRemote(uri) {
		return FallbackSourceURI
	}
	return uri
}

func canonicalArtwork(uri string) string {
	if !isRemote(uri) {
		return FallbackArtworkURI
	}
	return strings.ReplaceAll(uri, largeArtwork, croppedArtwork)
}

// Canonicalize 对已有的 Track 应用与导入相同的流派和地址规则，ID 不变
func Canonicalize(t model.Track) model.Track {
	t.Genre = NormalizeGenre(t.Genre)
	t.SourceURI = canonicalSource(t.SourceURI)
	t.ArtworkURI = canonicalArtwork(t.ArtworkURI)
	return t
}

// BuildTrack 把一条原始记录转换为 Track。
// 返回的 Track 总是可用的；err 只汇总被替换成默认值的字段。
func BuildTrack(raw model.RawRecord, apiKey string) (model.Track, error) {
	var errs error

	trackNumber, err := parseCount("id", raw.ID)
	errs = multierr.Append(errs, err)
	totalTracks, err := parseCount("likes_count", raw.LikesCount)
	errs = multierr.Append(errs, err)
	duration, err := parseCount("duration", raw.Duration)
	errs = multierr.Append(errs, err)

	source := canonicalSource(raw.StreamURL.Value)

	return model.Track{
		ID:              TrackID(source, apiKey),
		Title:           raw.Title.Value,
		Album:           raw.Permalink.Value,
		Artist:          raw.Permalink.Value,
		Genre:           NormalizeGenre(raw.Genre.Value),
		SourceURI:       source,
		ArtworkURI:      canonicalArtwork(raw.ArtworkURL.Value),
		DurationMs:      duration,
		TrackNumber:     trackNumber,
		TotalTrackCount: totalTracks,
	}, errs
}
