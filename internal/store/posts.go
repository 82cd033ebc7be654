// Package store holds the client-side state synchronized with the backend:
// the post list, the per-post comment lists, and the auth session. Each store
// exclusively owns its slice of state; mutations go through the API client
// and local state is updated from the server's response, never optimistically.
package store

import (
	"context"
	"sync"

	"trailblog/internal/api"
	"trailblog/internal/core/domain"
)

// PostStore caches one page of posts plus pagination metadata. Fetch replaces
// the whole list; pagination semantics belong to the caller.
type PostStore struct {
	client *api.Client

	mu       sync.RWMutex
	posts    []domain.Post
	total    int
	hasMore  bool
	loading  bool
	lastErr  error
	fetchSeq uint64

	onUpdate func()
}

func NewPostStore(client *api.Client) *PostStore {
	return &PostStore{client: client}
}

// SetUpdateCallback registers a function invoked after every state change.
func (s *PostStore) SetUpdateCallback(fn func()) {
	s.onUpdate = fn
}

// Fetch replaces the cached list with the requested page. A fetch that was
// superseded by a newer one discards its response instead of overwriting
// fresher state. On failure the previous list is left untouched.
func (s *PostStore) Fetch(ctx context.Context, skip, limit int, search string) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()

	page, err := s.client.ListPosts(ctx, skip, limit, search)

	s.mu.Lock()
	if seq != s.fetchSeq {
		s.mu.Unlock()
		return nil
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.posts = page.Posts
	s.total = page.Total
	s.hasMore = page.HasMore
	s.mu.Unlock()
	s.notify()
	return nil
}

// Create submits the draft and prepends the returned post. Local state is not
// touched on failure.
func (s *PostStore) Create(ctx context.Context, draft domain.Draft) (*domain.Post, error) {
	post, err := s.client.CreatePost(ctx, draft)
	if err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.posts = append([]domain.Post{*post}, s.posts...)
	s.total++
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()
	return post, nil
}

// Update replaces the matching post with the server's version.
func (s *PostStore) Update(ctx context.Context, id int, draft domain.Draft) (*domain.Post, error) {
	post, err := s.client.UpdatePost(ctx, id, draft)
	if err != nil {
		s.recordErr(err)
		return nil, err
	}
	s.replace(*post)
	return post, nil
}

// Delete removes the post locally after the backend confirms. The total
// never goes below zero.
func (s *PostStore) Delete(ctx context.Context, id int) error {
	if err := s.client.DeletePost(ctx, id); err != nil {
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	if s.total > 0 {
		s.total--
	}
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

// Like replaces the post with the server's updated version rather than
// incrementing locally, so the like count always reflects server truth.
func (s *PostStore) Like(ctx context.Context, id int) (*domain.Post, error) {
	post, err := s.client.LikePost(ctx, id)
	if err != nil {
		s.recordErr(err)
		return nil, err
	}
	s.replace(*post)
	return post, nil
}

// SetCommentCount reconciles the denormalized comment counter on a cached
// post. The comment store calls this through the wiring in cmd.
func (s *PostStore) SetCommentCount(postID, count int) {
	s.mu.Lock()
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].Comments = count
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Posts returns a copy of the cached list.
func (s *PostStore) Posts() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *PostStore) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

func (s *PostStore) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasMore
}

func (s *PostStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error recorded by the last failed operation, nil after a
// successful one.
func (s *PostStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *PostStore) replace(post domain.Post) {
	s.mu.Lock()
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			break
		}
	}
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()
}

func (s *PostStore) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.notify()
}

func (s *PostStore) notify() {
	if s.onUpdate != nil {
		s.onUpdate()
	}
}
