package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trailblog/internal/core/domain"
	"trailblog/internal/core/ports"
)

const DefaultBaseURL = "http://localhost:8000"

// tokenName is the fixed key the session token is stored under.
const tokenName = "trailblog"

const defaultTimeout = 15 * time.Second

// Error is a non-2xx response from the backend. Detail carries the backend's
// structured message when one was present, otherwise a generic HTTP message.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return e.Detail
}

// Client is the single point of contact with the backend; every network call
// the stores make goes through it. The bearer token is read from Storage once
// at construction and only written back through SetToken/ClearToken.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Storage    ports.Storage

	mu    sync.RWMutex
	token string
}

// New fails fast on an empty base URL rather than producing a client that
// can never reach anything.
func New(baseURL string, store ports.Storage) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}

	c := &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		Storage:    store,
	}
	if store != nil {
		token, err := store.LoadToken(tokenName)
		if err != nil {
			return nil, fmt.Errorf("api: load token: %w", err)
		}
		c.token = token
	}
	return c, nil
}

// Token returns the current bearer token, empty when unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken persists the token and uses it for subsequent requests.
func (c *Client) SetToken(token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if c.Storage == nil {
		return nil
	}
	return c.Storage.SaveToken(tokenName, token)
}

// ClearToken erases the persisted token. Safe to call with no session.
func (c *Client) ClearToken() error {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	if c.Storage == nil {
		return nil
	}
	return c.Storage.ClearToken(tokenName)
}

// do issues one JSON request and decodes the response into out (nil out
// discards the body). Non-2xx statuses become *Error; a malformed error body
// falls back to a generic message, a malformed success body is a real error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	return c.send(req, method, path, out)
}

func (c *Client) send(req *http.Request, method, path string, out any) error {
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	} else {
		apiErr.Detail = fmt.Sprintf("HTTP error %d", resp.StatusCode)
	}
	return apiErr
}

// Login authenticates with form-encoded credentials, which is what the
// backend's auth endpoint expects, and persists the returned token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var res LoginResponse
	if err := c.send(req, http.MethodPost, "/auth/login", &res); err != nil {
		return nil, err
	}
	if err := c.SetToken(res.AccessToken); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	return &res, nil
}

// Register creates an account. It does not authenticate the caller; the
// backend returns the created profile without a token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodPost, "/users/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the profile of the current session.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPosts fetches one page. An empty search is omitted from the query.
func (c *Client) ListPosts(ctx context.Context, skip, limit int, search string) (*PostPage, error) {
	path := fmt.Sprintf("/posts/?skip=%d&limit=%d", skip, limit)
	if search != "" {
		path += "&search=" + url.QueryEscape(search)
	}
	var page PostPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetPost(ctx context.Context, id int) (*domain.Post, error) {
	var post domain.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, draft domain.Draft) (*domain.Post, error) {
	var post domain.Post
	if err := c.do(ctx, http.MethodPost, "/posts/", draftRequest(draft), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, id int, draft domain.Draft) (*domain.Post, error) {
	var post domain.Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), draftRequest(draft), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}

// LikePost increments the counter server-side and returns the updated post.
// Callers replace their copy with the returned one instead of incrementing
// locally, so the count never drifts from server truth.
func (c *Client) LikePost(ctx context.Context, id int) (*domain.Post, error) {
	var post domain.Post
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/like", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) ListComments(ctx context.Context, postID, skip, limit int) ([]domain.Comment, error) {
	path := fmt.Sprintf("/posts/%d/comments?skip=%d&limit=%d", postID, skip, limit)
	var res commentListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Comments, nil
}

func (c *Client) CreateComment(ctx context.Context, postID int, content, author string) (*domain.Comment, error) {
	var comment domain.Comment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/comments", postID), createCommentRequest{
		Content: content,
		Author:  author,
	}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d/comments/%d", postID, commentID), nil, nil)
}

// UploadImage sends the file as multipart form data and returns the URL the
// backend stored it under. An empty filename gets a generated one.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	if filename == "" {
		filename = uuid.NewString() + ".jpg"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload-image", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	var res uploadResponse
	if err := c.send(req, http.MethodPost, "/upload-image", &res); err != nil {
		return "", err
	}
	return res.URL, nil
}

func (c *Client) Recommendations(ctx context.Context, postID, limit int) ([]domain.Post, error) {
	path := fmt.Sprintf("/posts/%d/recommendations?limit=%d", postID, limit)
	var res postListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Posts, nil
}

func (c *Client) TrendingAI(ctx context.Context, limit int) ([]domain.Post, error) {
	path := fmt.Sprintf("/posts/trending/ai?limit=%d", limit)
	var res postListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Posts, nil
}

func (c *Client) SuggestTitle(ctx context.Context, content string) ([]string, error) {
	var res suggestTitleResponse
	if err := c.do(ctx, http.MethodPost, "/ai/suggest-title", suggestTitleRequest{Content: content}, &res); err != nil {
		return nil, err
	}
	return res.Titles, nil
}

func (c *Client) GenerateDescription(ctx context.Context, title, content string) (string, error) {
	var res generateDescriptionResponse
	err := c.do(ctx, http.MethodPost, "/ai/generate-description", generateDescriptionRequest{
		Title:   title,
		Content: content,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.Description, nil
}

func (c *Client) GenerateTags(ctx context.Context, title, content string) ([]string, error) {
	var res generateTagsResponse
	err := c.do(ctx, http.MethodPost, "/ai/generate-tags", generateTagsRequest{
		Title:   title,
		Content: content,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Tags, nil
}

func (c *Client) ImproveContent(ctx context.Context, content string) (string, error) {
	var res improveContentResponse
	if err := c.do(ctx, http.MethodPost, "/ai/improve-content", improveContentRequest{Content: content}, &res); err != nil {
		return "", err
	}
	return res.ImprovedContent, nil
}

func (c *Client) ModerateContent(ctx context.Context, content string) (*Moderation, error) {
	var res Moderation
	if err := c.do(ctx, http.MethodPost, "/ai/moderate-content", moderateContentRequest{Content: content}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SimilarPosts(ctx context.Context, postID, limit int) ([]domain.Post, error) {
	var res postListResponse
	err := c.do(ctx, http.MethodPost, "/ai/similar-posts", similarPostsRequest{
		PostID: postID,
		Limit:  limit,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Posts, nil
}

func (c *Client) TravelInsights(ctx context.Context, destination string) (string, error) {
	var res travelInsightsResponse
	if err := c.do(ctx, http.MethodPost, "/ai/travel-insights", insightsRequest{Destination: destination}, &res); err != nil {
		return "", err
	}
	return res.Insights, nil
}

func (c *Client) WeatherInsights(ctx context.Context, destination string) (string, error) {
	var res weatherInsightsResponse
	if err := c.do(ctx, http.MethodPost, "/ai/weather-insights", insightsRequest{Destination: destination}, &res); err != nil {
		return "", err
	}
	return res.Summary, nil
}

// AIHealth reports whether the backend's AI services are reachable.
func (c *Client) AIHealth(ctx context.Context) (string, error) {
	var res aiHealthResponse
	if err := c.do(ctx, http.MethodGet, "/ai/health", nil, &res); err != nil {
		return "", err
	}
	return res.Status, nil
}

func draftRequest(d domain.Draft) createPostRequest {
	return createPostRequest{
		Title:       d.Title,
		Content:     d.Content,
		Description: d.Description,
		Image:       d.Image,
		Tags:        d.Tags,
	}
}
