package recipes

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"recipe-importer/pkg/api"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const galleryCacheKey = "gallery"

type GalleryFetcher interface {
	Gallery(ctx context.Context) ([]api.RecipeDescriptor, error)
}

// Gallery caches the recipe gallery listing until it expires or an import
// invalidates it.
type Gallery struct {
	fetcher GalleryFetcher
	cache   *expirable.LRU[string, []api.RecipeDescriptor]

	// Bumped by Invalidate. A fetch that straddles an invalidation is not cached.
	generation atomic.Uint64
}

func NewGallery(fetcher GalleryFetcher, size int, ttl time.Duration) *Gallery {
	return &Gallery{
		fetcher: fetcher,
		cache:   expirable.NewLRU[string, []api.RecipeDescriptor](size, nil, ttl),
	}
}

// List returns the gallery sorted by zOrder.
func (g *Gallery) List(ctx context.Context) ([]api.RecipeDescriptor, error) {
	if cached, ok := g.cache.Get(galleryCacheKey); ok {
		return SortByZOrder(cached), nil
	}

	gen := g.generation.Load()
	gallery, err := g.fetcher.Gallery(ctx)
	if err != nil {
		return nil, err
	}
	if g.generation.Load() == gen {
		g.cache.Add(galleryCacheKey, gallery)
	}
	slog.Debug("fetched recipe gallery", "recipes", len(gallery))

	return SortByZOrder(gallery), nil
}

func (g *Gallery) Invalidate() {
	g.generation.Add(1)
	g.cache.Purge()
}

// SortByZOrder returns a sorted copy: recipes with a zOrder come first in
// ascending order, the rest keep their original relative order.
func SortByZOrder(gallery []api.RecipeDescriptor) []api.RecipeDescriptor {
	sorted := append([]api.RecipeDescriptor(nil), gallery...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].ZOrder, sorted[j].ZOrder
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})
	return sorted
}

func Find(gallery []api.RecipeDescriptor, name string) (api.RecipeDescriptor, bool) {
	for _, desc := range gallery {
		if desc.Name == name {
			return desc, true
		}
	}
	return api.RecipeDescriptor{}, false
}
