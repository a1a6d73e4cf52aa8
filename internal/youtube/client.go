package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithAPIKey sets an API key for unauthenticated requests. Ignored when a
// token source is configured.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTokenSource sets the OAuth token source used to authorize requests.
func WithTokenSource(tokens oauth2.TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithLogger sets the logger requests are traced to.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// Client is a YouTube Data API client.
type Client struct {
	apiKey     string
	tokens     oauth2.TokenSource
	baseURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a new YouTube API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    apiBase,
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// QueryOption refines a list request.
type QueryOption func(url.Values)

// WithMaxResults caps the page size of a list request.
func WithMaxResults(n int) QueryOption {
	return func(q url.Values) {
		q.Set("maxResults", strconv.Itoa(n))
	}
}

// WithPageToken addresses a specific result page, using a token from a
// previous feed's NextPageToken or PrevPageToken.
func WithPageToken(token string) QueryOption {
	return func(q url.Values) {
		q.Set("pageToken", token)
	}
}

// WithOrder sets the result ordering of a search, e.g. "date", "rating",
// "relevance" or "viewCount".
func WithOrder(order string) QueryOption {
	return func(q url.Values) {
		q.Set("order", order)
	}
}

// WithSafeSearch sets the restricted-content filtering level of a search:
// "none", "moderate" or "strict".
func WithSafeSearch(level string) QueryOption {
	return func(q url.Values) {
		q.Set("safeSearch", level)
	}
}

// WithRegion restricts results to those viewable in the given ISO 3166-1
// country code.
func WithRegion(code string) QueryOption {
	return func(q url.Values) {
		q.Set("regionCode", code)
	}
}

// FetchVideo retrieves the video with the given ID. A well-formed response
// naming no such video fails with ErrNotFound.
func (c *Client) FetchVideo(ctx context.Context, id string) (*Video, error) {
	if id == "" {
		return nil, invalidArgErr("video ID is empty")
	}

	body, err := c.get(ctx, entryURI(c.baseURL, id))
	if err != nil {
		return nil, err
	}

	v, err := ParseVideo(body)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", id, err)
	}
	return v, nil
}

// QueryVideos searches for videos matching the given free-text query.
func (c *Client) QueryVideos(ctx context.Context, query string, opts ...QueryOption) (*VideoFeed, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("q", query)
	return c.queryVideoFeed(ctx, "/youtube/v3/search", q, opts)
}

// QueryRelatedVideos searches for videos related to the given video.
func (c *Client) QueryRelatedVideos(ctx context.Context, video *Video, opts ...QueryOption) (*VideoFeed, error) {
	if video.ID() == "" {
		return nil, invalidArgErr("video has no ID")
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("relatedToVideoId", video.ID())
	return c.queryVideoFeed(ctx, "/youtube/v3/search", q, opts)
}

// QueryMostPopular retrieves the most popular videos chart.
func (c *Client) QueryMostPopular(ctx context.Context, opts ...QueryOption) (*VideoFeed, error) {
	q := url.Values{}
	q.Set("part", "contentDetails,id,recordingDetails,snippet,status,statistics")
	q.Set("chart", "mostPopular")
	return c.queryVideoFeed(ctx, "/youtube/v3/videos", q, opts)
}

func (c *Client) queryVideoFeed(ctx context.Context, path string, q url.Values, opts []QueryOption) (*VideoFeed, error) {
	for _, opt := range opts {
		opt(q)
	}

	body, err := c.get(ctx, c.baseURL+path+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	feed, err := ParseVideoFeed(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("parsing video feed: %w", err)
	}
	return feed, nil
}

// QueryComments retrieves a page of the comments on a video.
func (c *Client) QueryComments(ctx context.Context, video *Video, opts ...QueryOption) (*CommentFeed, error) {
	uri := video.QueryCommentsURI()
	if uri == "" {
		return nil, invalidArgErr("video has no ID")
	}
	uri = c.rebase(uri)

	q := url.Values{}
	for _, opt := range opts {
		opt(q)
	}
	if len(q) > 0 {
		uri += "&" + q.Encode()
	}

	body, err := c.get(ctx, uri)
	if err != nil {
		return nil, err
	}

	feed, err := ParseCommentFeed(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("parsing comment feed: %w", err)
	}
	return feed, nil
}

// InsertComment posts comment on video and returns the entity the server
// stored. The comment is back-annotated with the video and channel IDs
// before serialization.
func (c *Client) InsertComment(ctx context.Context, video *Video, comment *Comment) (*Comment, error) {
	uri := video.InsertCommentURI(comment)
	if uri == "" {
		return nil, invalidArgErr("video has no ID")
	}

	payload, err := comment.MarshalResource()
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, c.rebase(uri), comment.ContentType(), payload)
	if err != nil {
		return nil, err
	}

	inserted, err := ParseComment(body)
	if err != nil {
		return nil, fmt.Errorf("parsing inserted comment: %w", err)
	}
	return inserted, nil
}

// DeleteComment reports that the service does not support deleting video
// comments.
func (c *Client) DeleteComment(ctx context.Context, video *Video, comment *Comment) error {
	if video.IsCommentDeletable(comment) {
		return nil
	}
	return fmt.Errorf("deleting comments: %w", ErrUnsupportedOperation)
}

// UpdateVideo writes the video's mutable properties back to the service and
// returns the entity the server stored.
func (c *Client) UpdateVideo(ctx context.Context, video *Video) (*Video, error) {
	if video.ID() == "" {
		return nil, invalidArgErr("video has no ID")
	}

	payload, err := video.MarshalResource()
	if err != nil {
		return nil, err
	}

	uri := c.baseURL + "/youtube/v3/videos?part=snippet,status,recordingDetails"
	body, err := c.do(ctx, http.MethodPut, uri, video.ContentType(), payload)
	if err != nil {
		return nil, err
	}

	updated, err := ParseVideo(body)
	if err != nil {
		return nil, fmt.Errorf("parsing updated video: %w", err)
	}
	return updated, nil
}

// DeleteVideo removes the video from the service.
func (c *Client) DeleteVideo(ctx context.Context, video *Video) error {
	if video.ID() == "" {
		return invalidArgErr("video has no ID")
	}

	uri := c.baseURL + "/youtube/v3/videos?id=" + url.QueryEscape(video.ID())
	_, err := c.do(ctx, http.MethodDelete, uri, "", nil)
	return err
}

// rebase rewrites an entity-built URI onto the client's base URL, so
// entities carrying production addresses still work against a test server.
func (c *Client) rebase(uri string) string {
	if c.baseURL == apiBase {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return uri
	}
	u.Scheme = base.Scheme
	u.Host = base.Host
	return u.String()
}

func (c *Client) get(ctx context.Context, uri string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, uri, "", nil)
}

func (c *Client) do(ctx context.Context, method, uri, contentType string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, uri, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("method", method).
		Str("url", uri).
		Str("request_id", requestID).
		Msg("calling youtube api")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, body)
		c.log.Warn().
			Str("request_id", requestID).
			Int("status", resp.StatusCode).
			Err(apiErr).
			Msg("youtube api error")
		return nil, apiErr
	}

	return body, nil
}

// authorize attaches credentials to the request: a bearer token when a token
// source is configured, otherwise the API key as a query parameter.
func (c *Client) authorize(req *http.Request) error {
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("fetching access token: %w", err)
		}
		token.SetAuthHeader(req)
		return nil
	}
	if c.apiKey != "" {
		q := req.URL.Query()
		q.Set("key", c.apiKey)
		req.URL.RawQuery = q.Encode()
	}
	return nil
}

// APIError is a failure reported by the service's error envelope.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Domain and Reason identify the failure, e.g. "youtube.video" /
	// "videoNotFound". Empty when the envelope could not be decoded.
	Domain string
	Reason string
	// Message is the server's human-readable description.
	Message string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api: %s (%s, status %d)", e.Message, e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("youtube api: status %d", e.StatusCode)
}

// Unwrap maps the failure onto the package's error taxonomy, so callers can
// test with errors.Is instead of matching reason strings. The reason decides
// when present; the HTTP status is the fallback.
func (e *APIError) Unwrap() error {
	switch e.Reason {
	case "videoNotFound", "commentThreadNotFound", "commentNotFound", "channelNotFound":
		return ErrNotFound
	case "invalidValue", "invalidFilters", "missingRequiredParameter":
		return ErrInvalidArgument
	case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded",
		"userRateLimitExceeded", "servingLimitExceeded":
		return ErrQuotaExceeded
	case "keyInvalid", "keyExpired", "authError":
		return ErrInvalidKey
	case "forbidden", "insufficientPermissions", "accessNotConfigured":
		return ErrForbidden
	}
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidArgument
	case http.StatusUnauthorized:
		return ErrInvalidKey
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusTooManyRequests:
		return ErrQuotaExceeded
	}
	return nil
}

type apiErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Domain  string `json:"domain"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

func decodeAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var envelope apiErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	apiErr.Message = envelope.Error.Message
	if len(envelope.Error.Errors) > 0 {
		first := envelope.Error.Errors[0]
		apiErr.Domain = first.Domain
		apiErr.Reason = first.Reason
		if apiErr.Message == "" {
			apiErr.Message = first.Message
		}
	}
	return apiErr
}

// IsNotFound reports whether err denotes a missing entity, either from a
// parse-time unwrap of an empty list response or from the service's error
// envelope.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
