package soundcloud

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundcatalog/core/catalog"
	"soundcatalog/model"
)

// 编译期检查
var _ catalog.Loader = (*Client)(nil)

const tracksJSON = `[
  {"title": "Night Drive", "permalink": "night-drive", "genre": "Synthwave",
   "stream_url": "https://api.soundcloud.com/tracks/11/stream",
   "artwork_url": "https://i1.sndcdn.com/artworks-11-large.jpg",
   "id": 11, "likes_count": "42", "duration": 215000},
  {"title": "No Meta", "permalink": null, "genre": null, "stream_url": null,
   "artwork_url": null, "id": null}
]`

func TestFetchSendsQueryAndDecodes(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tracksJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	c.SetLimit(50)

	records, err := c.Fetch(context.Background(), "chicago")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "/tracks.json", got.URL.Path)
	assert.Equal(t, "secret", got.URL.Query().Get("client_id"))
	assert.Equal(t, "chicago", got.URL.Query().Get("q"))
	assert.Equal(t, "50", got.URL.Query().Get("limit"))

	require.Len(t, records, 2)
	assert.Equal(t, model.T("Night Drive"), records[0].Title)
	assert.Equal(t, model.T("11"), records[0].ID)
	assert.Equal(t, model.T("42"), records[0].LikesCount)
	assert.Equal(t, model.T("215000"), records[0].Duration)

	assert.False(t, records[1].Permalink.Valid)
	assert.False(t, records[1].StreamURL.Present())
	assert.False(t, records[1].LikesCount.Valid)

	track, err := catalog.BuildTrack(records[0], "secret")
	require.NoError(t, err)
	assert.Equal(t, "https://i1.sndcdn.com/artworks-11-crop.jpg", track.ArtworkURI)
	assert.Equal(t, int64(11), track.TrackNumber)
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad").Fetch(context.Background(), "x")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "unauthorized", se.Body)
}

func TestFetchInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "id").Fetch(context.Background(), "x")
	assert.Error(t, err)
}

func TestFetchHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL, "id").Fetch(ctx, "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProviderWithClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tracksJSON))
	}))
	defer srv.Close()

	p := catalog.NewProvider(NewClient(srv.URL, "secret"), catalog.Options{APIKey: "secret"})
	defer p.Close()

	ready := make(chan bool, 1)
	p.EnsureReady("night", func(ok bool) { ready <- ok })
	select {
	case ok := <-ready:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("catalog not ready")
	}
	assert.Equal(t, []string{catalog.DefaultGenre, "Synthwave"}, p.Genres())
	assert.Len(t, p.SearchByTitle("NIGHT"), 1)
}
