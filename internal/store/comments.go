package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"trailblog/internal/api"
	"trailblog/internal/core/domain"
)

// CommentStore caches comment lists keyed by post ID. A missing key means
// "never fetched"; an empty list under a key is a genuinely empty result.
// Nothing is fetched automatically.
type CommentStore struct {
	client *api.Client

	mu       sync.RWMutex
	comments map[int][]domain.Comment
	loading  bool
	lastErr  error

	// onCountChanged reports the authoritative list length after a create or
	// delete, so the post store can reconcile its denormalized counter.
	onCountChanged func(postID, count int)
}

func NewCommentStore(client *api.Client) *CommentStore {
	return &CommentStore{
		client:   client,
		comments: make(map[int][]domain.Comment),
	}
}

func (s *CommentStore) SetCountCallback(fn func(postID, count int)) {
	s.onCountChanged = fn
}

// Get fetches the comments for a post and caches them under its ID,
// overwriting any prior list. Refreshing is idempotent.
func (s *CommentStore) Get(ctx context.Context, postID int) ([]domain.Comment, error) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	comments, err := s.client.ListComments(ctx, postID, 0, 100)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	s.comments[postID] = comments
	return comments, nil
}

// Cached returns the list for a post without touching the network. The bool
// distinguishes "never fetched" from an empty list.
func (s *CommentStore) Cached(postID int) ([]domain.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comments, ok := s.comments[postID]
	if !ok {
		return nil, false
	}
	out := make([]domain.Comment, len(comments))
	copy(out, comments)
	return out, true
}

// Create submits a comment and prepends it to the cached list, creating the
// list if the post was never fetched. Empty content is rejected before any
// network call.
func (s *CommentStore) Create(ctx context.Context, postID int, content, author string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		err := fmt.Errorf("comment content is empty")
		s.setErr(err)
		return nil, err
	}

	comment, err := s.client.CreateComment(ctx, postID, content, author)
	if err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.comments[postID] = append([]domain.Comment{*comment}, s.comments[postID]...)
	count := len(s.comments[postID])
	s.lastErr = nil
	s.mu.Unlock()

	s.notifyCount(postID, count)
	return comment, nil
}

// Delete removes the comment from the cached list after the backend confirms.
func (s *CommentStore) Delete(ctx context.Context, postID, commentID int) error {
	if err := s.client.DeleteComment(ctx, postID, commentID); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	cached := s.comments[postID]
	kept := make([]domain.Comment, 0, len(cached))
	for _, c := range cached {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	s.comments[postID] = kept
	count := len(kept)
	s.lastErr = nil
	s.mu.Unlock()

	s.notifyCount(postID, count)
	return nil
}

// Like forwards to the backend's like endpoint and returns the updated post.
// This store owns comments, not posts: the caller reconciles the returned
// post with whatever list it maintains.
func (s *CommentStore) Like(ctx context.Context, postID int) (*domain.Post, error) {
	post, err := s.client.LikePost(ctx, postID)
	if err != nil {
		s.setErr(err)
		return nil, err
	}
	return post, nil
}

func (s *CommentStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *CommentStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *CommentStore) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *CommentStore) notifyCount(postID, count int) {
	if s.onCountChanged != nil {
		s.onCountChanged(postID, count)
	}
}
