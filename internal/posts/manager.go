// Package posts manages the post working set: a client-held copy of
// the remote collection, refreshed on list and patched optimistically
// after each successful mutation instead of re-fetching.
package posts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/server-craftsman/manage-post/internal/models"
	"github.com/server-craftsman/manage-post/internal/remote"
)

var (
	ErrAuthenticationRequired = errors.New("you must be logged in to create a post")
	ErrInvalidStatus          = errors.New("post status must be published, draft or private")
)

type Manager struct {
	store         *remote.Client
	maxImageBytes int64

	mu      sync.RWMutex
	working []models.Post
}

func NewManager(store *remote.Client, maxImageBytes int64) *Manager {
	return &Manager{
		store:         store,
		maxImageBytes: maxImageBytes,
	}
}

// List fetches the full collection and replaces the working set. The
// store guarantees no ordering; callers wanting newest-first apply
// SortNewestFirst on the result.
func (m *Manager) List(ctx context.Context) ([]models.Post, error) {
	fetched, err := m.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.working = fetched
	m.mu.Unlock()

	return m.snapshot(), nil
}

// Cached returns the current working set without a remote call.
func (m *Manager) Cached() []models.Post {
	return m.snapshot()
}

func (m *Manager) snapshot() []models.Post {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Post, len(m.working))
	copy(out, m.working)
	return out
}

func (m *Manager) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return m.store.GetPost(ctx, id)
}

// Create submits a new post for the acting user. The image payload, if
// any, is encoded to a base64 data-URI before submission and capped
// locally; the store may still reject an oversized body with 413. On
// success the store's echoed record is appended to the working set
// without a re-fetch.
func (m *Manager) Create(ctx context.Context, actor *models.User, p models.Post, image []byte, imageType string) (*models.Post, error) {

	if actor == nil {
		return nil, ErrAuthenticationRequired
	}

	if p.Status == "" {
		p.Status = models.StatusDraft
	}
	if !models.ValidStatus(p.Status) {
		return nil, ErrInvalidStatus
	}

	if len(image) > 0 {
		encoded, err := EncodeDataURI(image, imageType, m.maxImageBytes)
		if err != nil {
			return nil, err
		}
		p.PostImage = encoded
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.UserID == "" {
		p.UserID = actor.ID
	}

	now := time.Now()
	p.CreateDate = now
	p.UpdateDate = now

	created, err := m.store.CreatePost(ctx, p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.working = append(m.working, *created)
	m.mu.Unlock()

	return created, nil
}

// Update replaces the entire record at the store, always rewriting
// UpdateDate first. On success the matching working-set entry is
// swapped by ID. An empty response body from the store surfaces as a
// rejection and leaves the working set untouched; overlapping updates
// for the same ID resolve to whichever finishes last.
func (m *Manager) Update(ctx context.Context, p models.Post) (*models.Post, error) {

	if !models.ValidStatus(p.Status) {
		return nil, ErrInvalidStatus
	}

	p.UpdateDate = time.Now()

	updated, err := m.store.ReplacePost(ctx, p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	for i := range m.working {
		if m.working[i].ID == updated.ID {
			m.working[i] = *updated
			break
		}
	}
	m.mu.Unlock()

	return updated, nil
}

// Delete removes the record at the store, then filters it out of the
// working set. No undo, no soft-delete.
func (m *Manager) Delete(ctx context.Context, id string) error {

	if err := m.store.DeletePost(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	kept := m.working[:0]
	for _, p := range m.working {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.working = kept
	m.mu.Unlock()

	return nil
}

// ByUser prefers the store's per-user endpoint and falls back to
// filtering a full fetch when the store does not implement it.
func (m *Manager) ByUser(ctx context.Context, userID string) ([]models.Post, error) {

	posts, err := m.store.ListPostsByUser(ctx, userID)
	if err == nil {
		return posts, nil
	}
	if !remote.IsNotFound(err) {
		return nil, err
	}

	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterByUser(all, userID), nil
}

// CountByUser derives the count client-side from a full fetch. O(n)
// over all posts; the store has no aggregates.
func (m *Manager) CountByUser(ctx context.Context, userID string) (int, error) {
	all, err := m.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(filterByUser(all, userID)), nil
}

func filterByUser(posts []models.Post, userID string) []models.Post {
	var out []models.Post
	for _, p := range posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}
