package pbimages

import (
	"context"
	"io"
	"strconv"
	"sync"
)

const (
	pathImages = "/api/images"
	pathUpload = "/api/images/upload"
)

// Gallery keeps the locally held image list consistent with server state for
// the active visibility scope.
//
// Overlapping loads are resolved by tagging every request with a sequence
// number and the scope it was issued for: a response is applied only when it
// is still the latest issued load and its scope is still the active one, so
// a slow response for a previously selected scope can never overwrite the
// current list.
type Gallery struct {
	mu     sync.Mutex
	client *Client

	scope          Scope
	items          []Image
	selected       *Image
	revealSpoilers bool
	state          LoadState
	loadSeq        uint64
}

func newGallery(c *Client) *Gallery {
	return &Gallery{
		client: c,
		scope:  ScopePublic,
		state:  LoadIdle,
	}
}

// Scope returns the active visibility filter.
func (g *Gallery) Scope() Scope {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scope
}

// State returns the current load state.
func (g *Gallery) State() LoadState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Items returns a copy of the image list as last fetched from the server.
func (g *Gallery) Items() []Image {
	g.mu.Lock()
	defer g.mu.Unlock()
	items := make([]Image, len(g.items))
	copy(items, g.items)
	return items
}

// Selected returns the image currently opened in the detail view, or nil.
func (g *Gallery) Selected() *Image {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected == nil {
		return nil
	}
	img := *g.selected
	return &img
}

// Select sets the detail-view selection. Passing nil clears it.
// Pure local state, no I/O.
func (g *Gallery) Select(img *Image) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if img == nil {
		g.selected = nil
		return
	}
	selected := *img
	g.selected = &selected
}

// RevealSpoilers reports whether private images are displayed unmasked.
func (g *Gallery) RevealSpoilers() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.revealSpoilers
}

// SetRevealSpoilers toggles the client-only spoiler mask for private images.
func (g *Gallery) SetRevealSpoilers(reveal bool) {
	g.mu.Lock()
	g.revealSpoilers = reveal
	g.mu.Unlock()
}

// SetScope switches the active visibility filter and triggers a fresh load.
func (g *Gallery) SetScope(ctx context.Context, scope Scope) error {
	g.mu.Lock()
	g.scope = scope
	g.mu.Unlock()
	return g.Load(ctx)
}

// Load fetches the image list for the current scope. On success the items
// are replaced wholesale; on failure the previous items are kept and the
// error is returned. Responses for superseded loads or a no-longer-active
// scope are discarded.
func (g *Gallery) Load(ctx context.Context) error {
	g.mu.Lock()
	g.loadSeq++
	seq := g.loadSeq
	scope := g.scope
	g.state = LoadInFlight
	g.mu.Unlock()

	var items []Image
	err := g.client.get(ctx, pathImages+"?private="+strconv.FormatBool(scope.IsPrivate()), &items)

	g.mu.Lock()
	defer g.mu.Unlock()

	if seq != g.loadSeq || scope != g.scope {
		// A newer load owns the state now; this response is stale.
		return nil
	}

	if err != nil {
		g.state = LoadFailed
		return err
	}

	if items == nil {
		items = []Image{}
	}
	g.items = items
	g.state = LoadDone
	return nil
}

// Upload submits a new image with its caption and visibility flag, then
// refreshes the list. The server assigns the ID and timestamp, so there is
// no optimistic local insert. Uploading without a file fails locally with
// ErrNoFile before any network call.
func (g *Gallery) Upload(ctx context.Context, file io.Reader, filename, caption string, isPrivate bool) (*Image, error) {
	if file == nil {
		return nil, ErrNoFile
	}

	var created Image
	if err := g.client.postMultipart(ctx, pathUpload, file, filename, caption, isPrivate, &created); err != nil {
		return nil, err
	}

	if err := g.Load(ctx); err != nil {
		return &created, err
	}
	return &created, nil
}

// Delete requests deletion of an image. On success the matching entry is
// removed locally without a refetch, and the selection is cleared if it
// referenced the deleted image. Removing an ID that is not in the list
// leaves the list unchanged.
func (g *Gallery) Delete(ctx context.Context, imageID string) error {
	if err := g.client.delete(ctx, imagePath(imageID)); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	kept := g.items[:0]
	for _, img := range g.items {
		if img.ID != imageID {
			kept = append(kept, img)
		}
	}
	g.items = kept

	if g.selected != nil && g.selected.ID == imageID {
		g.selected = nil
	}
	return nil
}
