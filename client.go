package pbimages

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the default PbimageS API endpoint.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// Client is the PbimageS API client.
//
// The Session and Gallery fields carry all client-side state. The
// authorization header is read from the Session on every request; nothing
// is kept in process-wide globals.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Session owns the authentication token and user identity.
	Session *Session
	// Gallery owns the cached image list for the active scope.
	Gallery *Gallery
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithTokenStore sets the store used to persist the session token across
// restarts. The default keeps the token in memory only.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		c.Session.store = store
	}
}

// NewClient creates a new PbimageS API client.
//
// Example:
//
//	client := pbimages.NewClient(pbimages.WithBaseURL("https://img.example.com"))
//	client.Session.Initialize()
//	if err := client.Session.Login(ctx, "alice", "secret"); err != nil {
//	    fmt.Println(pbimages.UserMessage(err))
//	}
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	c.Session = newSession(c, NewMemoryTokenStore())

	for _, opt := range opts {
		opt(c)
	}

	c.Gallery = newGallery(c)
	return c
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
