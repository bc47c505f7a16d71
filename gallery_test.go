package pbimages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// galleryServer serves a fixed list per scope and records delete calls.
type galleryServer struct {
	mu      sync.Mutex
	public  []Image
	private []Image
	deleted []string

	// publicDelay stalls responses for the public scope to simulate a slow
	// request racing a scope switch.
	publicDelay time.Duration
}

func (s *galleryServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == pathImages:
			s.mu.Lock()
			items := s.public
			delay := s.publicDelay
			if r.URL.Query().Get("private") == "true" {
				items = s.private
				delay = 0
			}
			s.mu.Unlock()

			time.Sleep(delay)
			json.NewEncoder(w).Encode(items)

		case r.Method == http.MethodPost && r.URL.Path == pathUpload:
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_, header, err := r.FormFile("file")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			created := Image{
				ID:       "01NEWIMAGE0000000000000000",
				Filename: header.Filename,
				Caption:  r.FormValue("caption"),
			}
			created.IsPrivate = r.FormValue("is_private") == "true"

			s.mu.Lock()
			if created.IsPrivate {
				s.private = append([]Image{created}, s.private...)
			} else {
				s.public = append([]Image{created}, s.public...)
			}
			s.mu.Unlock()

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(created)

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, pathImages+"/"):
			id := strings.TrimPrefix(r.URL.Path, pathImages+"/")
			s.mu.Lock()
			s.deleted = append(s.deleted, id)
			s.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)

		default:
			http.NotFound(w, r)
		}
	})
}

func newGalleryClient(t *testing.T, s *galleryServer) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(s.handler())
	client := NewClient(WithBaseURL(srv.URL))
	client.Session.Initialize()
	return client, srv.Close
}

func TestLoadReplacesItems(t *testing.T) {
	s := &galleryServer{
		public: []Image{{ID: "01A", Filename: "a.jpg"}, {ID: "01B", Filename: "b.jpg"}},
	}
	client, done := newGalleryClient(t, s)
	defer done()

	require.NoError(t, client.Gallery.Load(context.Background()))

	assert.Equal(t, LoadDone, client.Gallery.State())
	items := client.Gallery.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "01A", items[0].ID)
}

func TestLoadEmptyListIsNotAnError(t *testing.T) {
	client, done := newGalleryClient(t, &galleryServer{})
	defer done()

	require.NoError(t, client.Gallery.Load(context.Background()))
	assert.Equal(t, LoadDone, client.Gallery.State())
	assert.Empty(t, client.Gallery.Items())
}

func TestLoadFailureKeepsPreviousItems(t *testing.T) {
	s := &galleryServer{public: []Image{{ID: "01A"}}}
	srv := httptest.NewServer(s.handler())
	client := NewClient(WithBaseURL(srv.URL))
	client.Session.Initialize()

	require.NoError(t, client.Gallery.Load(context.Background()))
	require.Len(t, client.Gallery.Items(), 1)

	srv.Close() // next load hits a dead server

	err := client.Gallery.Load(context.Background())
	require.Error(t, err)

	assert.Equal(t, LoadFailed, client.Gallery.State())
	assert.Len(t, client.Gallery.Items(), 1, "failed load must not clear the list")
}

func TestSetScopeLoadsNewScope(t *testing.T) {
	s := &galleryServer{
		public:  []Image{{ID: "01PUB"}},
		private: []Image{{ID: "01PRIV", IsPrivate: true}},
	}
	client, done := newGalleryClient(t, s)
	defer done()

	require.NoError(t, client.Gallery.SetScope(context.Background(), ScopePrivate))

	assert.Equal(t, ScopePrivate, client.Gallery.Scope())
	items := client.Gallery.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "01PRIV", items[0].ID)
}

func TestSlowResponseForOldScopeIsDiscarded(t *testing.T) {
	s := &galleryServer{
		public:      []Image{{ID: "01PUB"}},
		private:     []Image{{ID: "01PRIV", IsPrivate: true}},
		publicDelay: 150 * time.Millisecond,
	}
	client, done := newGalleryClient(t, s)
	defer done()

	// Kick off a slow public load, then switch to private before it lands.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = client.Gallery.Load(context.Background())
	}()

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, client.Gallery.SetScope(context.Background(), ScopePrivate))
	wg.Wait()

	// The private list must win even though the public response arrived last.
	assert.Equal(t, ScopePrivate, client.Gallery.Scope())
	items := client.Gallery.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "01PRIV", items[0].ID)
	assert.Equal(t, LoadDone, client.Gallery.State())
}

func TestUploadRefreshesList(t *testing.T) {
	s := &galleryServer{public: []Image{{ID: "01A"}}}
	client, done := newGalleryClient(t, s)
	defer done()

	require.NoError(t, client.Gallery.Load(context.Background()))
	require.Len(t, client.Gallery.Items(), 1)

	img, err := client.Gallery.Upload(context.Background(),
		strings.NewReader("fake image bytes"), "cat.png", "my cat", false)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "cat.png", img.Filename)
	assert.Equal(t, "my cat", img.Caption)

	// The list was refetched and now contains the new image.
	items := client.Gallery.Items()
	require.Len(t, items, 2)
	assert.Equal(t, img.ID, items[0].ID)
}

func TestUploadWithoutFile(t *testing.T) {
	client := NewClient()
	client.Session.Initialize()

	_, err := client.Gallery.Upload(context.Background(), nil, "", "", false)
	require.ErrorIs(t, err, ErrNoFile)
	assert.Equal(t, "No file selected", UserMessage(err))
}

func TestDeleteRemovesItemLocally(t *testing.T) {
	s := &galleryServer{public: []Image{{ID: "01A"}, {ID: "01B"}}}
	client, done := newGalleryClient(t, s)
	defer done()

	require.NoError(t, client.Gallery.Load(context.Background()))
	client.Gallery.Select(&Image{ID: "01A"})

	require.NoError(t, client.Gallery.Delete(context.Background(), "01A"))

	items := client.Gallery.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "01B", items[0].ID)
	assert.Nil(t, client.Gallery.Selected(), "selection on the deleted image is cleared")
}

func TestDeleteUnlistedIDLeavesListUnchanged(t *testing.T) {
	s := &galleryServer{public: []Image{{ID: "01A"}}}
	client, done := newGalleryClient(t, s)
	defer done()

	require.NoError(t, client.Gallery.Load(context.Background()))
	require.NoError(t, client.Gallery.Delete(context.Background(), "01GONE"))

	assert.Len(t, client.Gallery.Items(), 1)
}

func TestDeleteFailureLeavesListUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "not_found", "message": "Image not found"},
			})
			return
		}
		json.NewEncoder(w).Encode([]Image{{ID: "01A"}})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	client.Session.Initialize()
	require.NoError(t, client.Gallery.Load(context.Background()))

	err := client.Gallery.Delete(context.Background(), "01A")
	require.Error(t, err)
	assert.Equal(t, "Image not found", UserMessage(err))
	assert.Len(t, client.Gallery.Items(), 1)
}

func TestSelectAndSpoilers(t *testing.T) {
	client := NewClient()

	assert.Nil(t, client.Gallery.Selected())
	client.Gallery.Select(&Image{ID: "01A"})
	require.NotNil(t, client.Gallery.Selected())
	assert.Equal(t, "01A", client.Gallery.Selected().ID)
	client.Gallery.Select(nil)
	assert.Nil(t, client.Gallery.Selected())

	assert.False(t, client.Gallery.RevealSpoilers())
	client.Gallery.SetRevealSpoilers(true)
	assert.True(t, client.Gallery.RevealSpoilers())
}
