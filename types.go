// Package pbimages provides the Go client for the PbimageS image sharing API.
//
// The client is split into two cooperating parts: the Session manages the
// authentication token and current user identity, and the Gallery holds the
// locally cached image list for the active visibility scope. Both are owned
// by a Client and safe for concurrent use.
package pbimages

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Scope is the visibility filter applied to the image list.
type Scope string

const (
	// ScopePublic selects images visible to everyone.
	ScopePublic Scope = "public"
	// ScopePrivate selects images only the owner can see.
	ScopePrivate Scope = "private"
)

// IsPrivate reports whether the scope selects private images.
func (s Scope) IsPrivate() bool {
	return s == ScopePrivate
}

// SessionStatus describes the authentication state of a Session.
type SessionStatus string

const (
	// StatusInitializing is the state before Initialize has run.
	StatusInitializing SessionStatus = "initializing"
	// StatusAuthenticated means a token and user identity are held.
	StatusAuthenticated SessionStatus = "authenticated"
	// StatusUnauthenticated means no session is active.
	StatusUnauthenticated SessionStatus = "unauthenticated"
)

// LoadState describes the gallery list-load state machine.
type LoadState string

const (
	// LoadIdle means no load has been issued yet.
	LoadIdle LoadState = "idle"
	// LoadInFlight means a load request is outstanding.
	LoadInFlight LoadState = "loading"
	// LoadDone means the last load replaced the item list.
	LoadDone LoadState = "loaded"
	// LoadFailed means the last load failed; the previous items are retained.
	LoadFailed LoadState = "failed"
)

// User is the identity record returned by login and registration.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Image is a single uploaded image as returned by the server.
// Fields are immutable once the image exists; the client never mutates them.
type Image struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Caption     string    `json:"caption"`
	IsPrivate   bool      `json:"is_private"`
	ImageData   string    `json:"image_data"` // base64 encoded payload
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}

// DataURI combines ContentType and ImageData into a self-contained
// embeddable resource, so the rendering layer needs no separate fetch.
func (i *Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.ContentType, i.ImageData)
}

// authResponse is the wire format of a successful login or registration.
type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
