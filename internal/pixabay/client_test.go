package pixabay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photoResponse = `{
	"total": 4692,
	"totalHits": 500,
	"hits": [{
		"id": 195893,
		"pageURL": "https://pixabay.com/en/blossom-bloom-flower-195893/",
		"type": "photo",
		"tags": "cat, pet, animal",
		"previewURL": "https://cdn.pixabay.com/photo/preview.jpg",
		"webformatURL": "https://pixabay.com/get/webformat.jpg",
		"views": 7671,
		"downloads": 6439,
		"likes": 5,
		"comments": 2,
		"user": "Josch13"
	}]
}`

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{WithInitialInterval(time.Millisecond)}, opts...)
	return New("secret-key", srv.URL+"/api/", srv.URL+"/api/videos/", opts...)
}

func TestSearchPhotos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret-key", q.Get("key"))
		assert.Equal(t, "cats", q.Get("q"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "20", q.Get("per_page"))
		assert.Equal(t, "true", q.Get("safesearch"))
		_, _ = w.Write([]byte(photoResponse))
	}))
	defer srv.Close()

	res, err := newTestClient(srv).Search(context.Background(), SearchRequest{Query: "cats", Type: TypePhoto, Page: 2, PerPage: 20})
	require.NoError(t, err)

	assert.Equal(t, 500, res.TotalHits)
	require.Len(t, res.Hits, 1)
	hit := res.Hits[0]
	assert.Equal(t, int64(195893), hit.ID)
	assert.Equal(t, "cat, pet, animal", hit.Tags)
	assert.Nil(t, hit.Videos)
	assert.Contains(t, string(hit.Raw), `"pageURL"`)
}

func TestSearchVideosUsesVideoEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/videos/", r.URL.Path)
		_, _ = w.Write([]byte(`{"totalHits":1,"hits":[{"id":7,"tags":"sea","videos":{"medium":{"url":"https://v/m.mp4","thumbnail":"https://v/m.jpg"}}}]}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv).Search(context.Background(), SearchRequest{Query: "sea", Type: TypeVideo, Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	require.NotNil(t, res.Hits[0].Videos)
	assert.Equal(t, "https://v/m.mp4", res.Hits[0].Videos.Medium.URL)
	assert.Equal(t, "https://v/m.jpg", res.Hits[0].Videos.Medium.Thumbnail)
}

func TestSearchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(photoResponse))
	}))
	defer srv.Close()

	res, err := newTestClient(srv, WithMaxTries(3)).Search(context.Background(), SearchRequest{Query: "cats", Type: TypePhoto, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 500, res.TotalHits)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearchGivesUpAfterMaxTries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, WithMaxTries(2)).Search(context.Background(), SearchRequest{Query: "cats", Type: TypePhoto, Page: 1, PerPage: 20})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("[ERROR 400] Invalid or missing API key"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, WithMaxTries(3)).Search(context.Background(), SearchRequest{Query: "cats", Type: TypePhoto, Page: 1, PerPage: 20})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, err.Error(), "status 400")
}

func TestSearchErrorsDoNotLeakAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv, WithMaxTries(1)).Search(context.Background(), SearchRequest{Query: "cats", Type: TypePhoto, Page: 1, PerPage: 20})
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "secret-key"), err.Error())
}

func TestSearchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, err := newTestClient(srv, WithTimeout(50*time.Millisecond)).Search(context.Background(), SearchRequest{Query: "cats", Type: TypePhoto, Page: 1, PerPage: 20})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
