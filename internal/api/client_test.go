package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"trailblog/internal/api"
	"trailblog/internal/core/domain"
)

// memStorage is an in-memory ports.Storage for tests.
type memStorage struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{tokens: make(map[string]string)}
}

func (m *memStorage) SaveToken(name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[name] = token
	return nil
}

func (m *memStorage) LoadToken(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[name], nil
}

func (m *memStorage) ClearToken(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, name)
	return nil
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := api.New("", newMemStorage())
	require.Error(t, err)
}

func TestLoginIsFormEncodedAndPersistsToken(t *testing.T) {
	token := gofakeit.UUID()
	username := gofakeit.Username()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, username, r.PostForm.Get("username"))
		require.Equal(t, "hunter2", r.PostForm.Get("password"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": token, "token_type": "bearer"})
	}))
	defer server.Close()

	store := newMemStorage()
	client, err := api.New(server.URL, store)
	require.NoError(t, err)

	res, err := client.Login(context.Background(), username, "hunter2")
	require.NoError(t, err)
	require.Equal(t, token, res.AccessToken)
	require.Equal(t, token, client.Token())

	// A new client over the same storage picks the session up again.
	client2, err := api.New(server.URL, store)
	require.NoError(t, err)
	require.Equal(t, token, client2.Token())
}

func TestBearerHeaderSentWhenAuthenticated(t *testing.T) {
	token := gofakeit.UUID()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.User{ID: 1, Username: "ann"})
	}))
	defer server.Close()

	client, err := api.New(server.URL, newMemStorage())
	require.NoError(t, err)
	require.NoError(t, client.SetToken(token))

	_, err = client.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer "+token, gotAuth)
}

func TestNoBearerHeaderWhenLoggedOut(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(api.PostPage{})
	}))
	defer server.Close()

	client, err := api.New(server.URL, newMemStorage())
	require.NoError(t, err)
	require.NoError(t, client.ClearToken())

	_, err = client.ListPosts(context.Background(), 0, 10, "")
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestStructuredErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer server.Close()

	client, err := api.New(server.URL, newMemStorage())
	require.NoError(t, err)

	_, err = client.Me(context.Background())
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Incorrect username or password", apiErr.Detail)
}

func TestGenericErrorWhenBodyIsNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>bad gateway</html>")
	}))
	defer server.Close()

	client, err := api.New(server.URL, newMemStorage())
	require.NoError(t, err)

	_, err = client.GetPost(context.Background(), 7)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "HTTP error 502", apiErr.Detail)
}

func TestMalformedSuccessBodyIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{not json")
	}))
	defer server.Close()

	client, err := api.New(server.URL, newMemStorage())
	require.NoError(t, err)

	_, err = client.GetPost(context.Background(), 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode")
}

func TestListPostsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/posts/", r.URL.Path)
		require.Equal(t, "20", r.URL.Query().Get("skip"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		require.Equal(t, "northern lights", r.URL.Query().Get("search"))
		json.NewEncoder(w).Encode(api.PostPage{
			Posts:   []domain.Post{{ID: 21, Title: "Tromsø in winter"}},
			Total:   21,
			HasMore: false,
		})
	}))
	defer server.Close()

	client, err := api.New(server.URL, newMemStorage())
	require.NoError(t, err)

	page, err := client.ListPosts(context.Background(), 20, 10, "northern lights")
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	require.Equal(t, 21, page.Posts[0].ID)
	require.Equal(t, 21, page.Total)
	require.False(t, page.HasMore)
}

func TestUploadImageIsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload-image", r.URL.Path)
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "sunset.jpg", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"url": "/uploads/sunset.jpg"})
	}))
	defer server.Close()

	client, err := api.New(server.URL, newMemStorage())
	require.NoError(t, err)

	url, err := client.UploadImage(context.Background(), "sunset.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	require.Equal(t, "/uploads/sunset.jpg", url)
}

func TestAIEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ai/suggest-title", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Content)
		json.NewEncoder(w).Encode(map[string][]string{"titles": {"Chasing Fjords", "A Week in Norway"}})
	})
	mux.HandleFunc("/ai/moderate-content", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Moderation{Flagged: true, Reason: "spam"})
	})
	mux.HandleFunc("/ai/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := api.New(server.URL, newMemStorage())
	require.NoError(t, err)
	ctx := context.Background()

	titles, err := client.SuggestTitle(ctx, gofakeit.Paragraph(1, 3, 8, " "))
	require.NoError(t, err)
	require.Equal(t, []string{"Chasing Fjords", "A Week in Norway"}, titles)

	verdict, err := client.ModerateContent(ctx, "buy cheap followers")
	require.NoError(t, err)
	require.True(t, verdict.Flagged)
	require.Equal(t, "spam", verdict.Reason)

	status, err := client.AIHealth(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", status)
}
