package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"soundcatalog/model"
)

func TestBuildTrackDefaults(t *testing.T) {
	raw := model.RawRecord{
		Title:      model.T("Song A"),
		Genre:      model.T(""),
		StreamURL:  model.T(""),
		ID:         model.T("7"),
		LikesCount: model.T("3"),
		Duration:   model.T("180"),
	}

	track, err := BuildTrack(raw, "key")
	require.NoError(t, err)

	assert.Equal(t, "Song A", track.Title)
	assert.Equal(t, DefaultGenre, track.Genre)
	assert.Equal(t, FallbackSourceURI, track.SourceURI)
	assert.Equal(t, FallbackArtworkURI, track.ArtworkURI)
	assert.Equal(t, int64(7), track.TrackNumber)
	assert.Equal(t, int64(3), track.TotalTrackCount)
	assert.Equal(t, int64(180), track.DurationMs)
	assert.NotEmpty(t, track.ID)
}

func TestBuildTrackFields(t *testing.T) {
	tests := []struct {
		name  string
		raw   model.RawRecord
		check func(t *testing.T, track model.Track)
	}{
		{
			name: "missing numeric fields default to one",
			raw:  model.RawRecord{Title: model.T("x")},
			check: func(t *testing.T, track model.Track) {
				assert.Equal(t, int64(1), track.TrackNumber)
				assert.Equal(t, int64(1), track.TotalTrackCount)
				assert.Equal(t, int64(1), track.DurationMs)
			},
		},
		{
			name: "permalink is album and artist",
			raw:  model.RawRecord{Permalink: model.T("some-permalink")},
			check: func(t *testing.T, track model.Track) {
				assert.Equal(t, "some-permalink", track.Album)
				assert.Equal(t, "some-permalink", track.Artist)
			},
		},
		{
			name: "remote stream kept",
			raw:  model.RawRecord{StreamURL: model.T("https://api.example.com/tracks/1/stream")},
			check: func(t *testing.T, track model.Track) {
				assert.Equal(t, "https://api.example.com/tracks/1/stream", track.SourceURI)
			},
		},
		{
			name: "non remote stream replaced",
			raw:  model.RawRecord{StreamURL: model.T("file:///sdcard/a.mp3")},
			check: func(t *testing.T, track model.Track) {
				assert.Equal(t, FallbackSourceURI, track.SourceURI)
			},
		},
		{
			name: "large artwork rewritten to crop",
			raw:  model.RawRecord{ArtworkURL: model.T("https://i1.sndcdn.com/artworks-1-large.jpg")},
			check: func(t *testing.T, track model.Track) {
				assert.Equal(t, "https://i1.sndcdn.com/artworks-1-crop.jpg", track.ArtworkURI)
			},
		},
		{
			name: "relative artwork replaced",
			raw:  model.RawRecord{ArtworkURL: model.T("/img/a.jpg")},
			check: func(t *testing.T, track model.Track) {
				assert.Equal(t, FallbackArtworkURI, track.ArtworkURI)
			},
		},
		{
			name: "single character genre goes to default bucket",
			raw:  model.RawRecord{Genre: model.T("x")},
			check: func(t *testing.T, track model.Track) {
				assert.Equal(t, DefaultGenre, track.Genre)
			},
		},
		{
			name: "genre kept",
			raw:  model.RawRecord{Genre: model.T("Jazz")},
			check: func(t *testing.T, track model.Track) {
				assert.Equal(t, "Jazz", track.Genre)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			track, err := BuildTrack(tc.raw, "key")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(track.SourceURI, "http"))
			assert.True(t, strings.HasPrefix(track.ArtworkURI, "http"))
			tc.check(t, track)
		})
	}
}

func TestBuildTrackMalformedNumbers(t *testing.T) {
	raw := model.RawRecord{
		Title:      model.T("Broken"),
		ID:         model.T("abc"),
		LikesCount: model.T("12"),
		Duration:   model.T("3.5"),
	}

	track, err := BuildTrack(raw, "key")
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	var fields []string
	for _, e := range errs {
		var mf *MalformedRecordError
		require.True(t, errors.As(e, &mf))
		fields = append(fields, mf.Field)
	}
	assert.Equal(t, []string{"id", "duration"}, fields)

	assert.Equal(t, int64(1), track.TrackNumber)
	assert.Equal(t, int64(12), track.TotalTrackCount)
	assert.Equal(t, int64(1), track.DurationMs)
	assert.Equal(t, "Broken", track.Title)
}

func TestTrackIDDeterministic(t *testing.T) {
	a := TrackID("http://a/stream", "key")
	assert.Equal(t, a, TrackID("http://a/stream", "key"))
	assert.NotEqual(t, a, TrackID("http://b/stream", "key"))
	assert.NotEqual(t, a, TrackID("http://a/stream", "other"))
}

func TestCanonicalize(t *testing.T) {
	got := Canonicalize(model.Track{ID: "keep", Genre: "x", ArtworkURI: "http://a/b-large.jpg"})
	assert.Equal(t, "keep", got.ID)
	assert.Equal(t, DefaultGenre, got.Genre)
	assert.Equal(t, FallbackSourceURI, got.SourceURI)
	assert.Equal(t, "http://a/b-crop.jpg", got.ArtworkURI)
}
