// Package notify counts recent posts on a fixed interval so the view
// layer can badge its notification bell without fetching the whole
// collection itself.
package notify

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/server-craftsman/manage-post/internal/logger"
	"github.com/server-craftsman/manage-post/internal/remote"
)

// recentWindow matches the original behavior: a post counts as "new"
// for one day after creation.
const recentWindow = 24 * time.Hour

type Poller struct {
	store    *remote.Client
	interval time.Duration
	count    atomic.Int64
}

func NewPoller(store *remote.Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{store: store, interval: interval}
}

// Count returns the most recently polled number of new posts.
func (p *Poller) Count() int {
	return int(p.count.Load())
}

// Run polls until ctx is canceled. Poll failures are logged and the
// previous count stands; they never interrupt anything else.
func (p *Poller) Run(ctx context.Context) {

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	posts, err := p.store.ListPosts(ctx)
	if err != nil {
		logger.Warn("notification poll failed", map[string]any{
			"error": err.Error(),
		})
		return
	}

	cutoff := time.Now().Add(-recentWindow)
	n := 0
	for _, post := range posts {
		if post.CreateDate.After(cutoff) {
			n++
		}
	}

	p.count.Store(int64(n))
}
