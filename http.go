package pbimages

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerUserAgent     = "User-Agent"
	contentTypeJSON     = "application/json"
	clientUserAgent     = "pbimages-go/1.0.0"
)

// doRequest performs an HTTP request and handles common error cases.
// The session's auth header, when present, is attached to every request.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	reqURL := strings.TrimSuffix(c.baseURL, "/") + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindUnknown, Message: genericFailureMessage, cause: err}
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: genericFailureMessage, cause: err}
	}

	req.Header.Set(headerUserAgent, clientUserAgent)
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	if auth := c.Session.AuthHeader(); auth != "" {
		req.Header.Set(headerAuthorization, auth)
	}

	return c.send(req, result)
}

// send executes a prepared request and decodes the response into result.
func (c *Client) send(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError(err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseError(resp.StatusCode, respBody)
		// A rejected token while we believe we are authenticated means the
		// restored session went stale; drop it so the caller lands back at login.
		if apiErr.IsUnauthorized() && req.URL.Path != pathLogin && req.URL.Path != pathRegister {
			c.Session.invalidate()
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := decodeBody(respBody, result); err != nil {
			return &Error{Kind: KindUnknown, Message: genericFailureMessage, cause: err}
		}
	}
	return nil
}

// decodeBody unwraps the server's {"data": ...} envelope when present,
// otherwise decodes the body directly.
func decodeBody(body []byte, result interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, result)
	}
	return json.Unmarshal(body, result)
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result)
}

// delete performs a DELETE request.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// postMultipart uploads a file with its caption and visibility flag as a
// multipart form.
func (c *Client) postMultipart(ctx context.Context, path string, file io.Reader, filename, caption string, isPrivate bool, result interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: genericFailureMessage, cause: err}
	}
	if _, err := io.Copy(fw, file); err != nil {
		return &Error{Kind: KindUnknown, Message: genericFailureMessage, cause: err}
	}
	if err := w.WriteField("caption", caption); err != nil {
		return &Error{Kind: KindUnknown, Message: genericFailureMessage, cause: err}
	}
	if err := w.WriteField("is_private", strconv.FormatBool(isPrivate)); err != nil {
		return &Error{Kind: KindUnknown, Message: genericFailureMessage, cause: err}
	}
	if err := w.Close(); err != nil {
		return &Error{Kind: KindUnknown, Message: genericFailureMessage, cause: err}
	}

	reqURL := strings.TrimSuffix(c.baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: genericFailureMessage, cause: err}
	}
	req.Header.Set(headerUserAgent, clientUserAgent)
	req.Header.Set(headerContentType, w.FormDataContentType())
	if auth := c.Session.AuthHeader(); auth != "" {
		req.Header.Set(headerAuthorization, auth)
	}

	return c.send(req, result)
}

// imagePath builds the path for a single image resource.
func imagePath(id string) string {
	return fmt.Sprintf("%s/%s", pathImages, id)
}
