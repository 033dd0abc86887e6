package posts

import (
	"sort"
	"strings"
	"time"

	"github.com/server-craftsman/manage-post/internal/models"
)

// Filter narrows a fetched collection client-side. Zero values mean
// "no constraint"; the store itself filters nothing.
type Filter struct {
	Status      string
	Query       string // free-text match against title and description
	CreatedFrom time.Time
	CreatedTo   time.Time
}

func Apply(in []models.Post, f Filter) []models.Post {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var out []models.Post
	for _, p := range in {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if !f.CreatedFrom.IsZero() && p.CreateDate.Before(f.CreatedFrom) {
			continue
		}
		if !f.CreatedTo.IsZero() && p.CreateDate.After(f.CreatedTo) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortNewestFirst orders by creation date descending, in place.
func SortNewestFirst(in []models.Post) {
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].CreateDate.After(in[j].CreateDate)
	})
}

// Paginate slices out one page; out-of-range pages come back empty. A
// limit of zero or less means everything from offset on.
func Paginate(in []models.Post, offset, limit int) []models.Post {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(in) {
		return nil
	}
	end := len(in)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return in[offset:end]
}
