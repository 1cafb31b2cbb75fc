// Package search filters a cached collection snapshot by a wildcard match on
// one attribute.
package search

import (
	"context"

	"github.com/crmarques/srvinv/debugctx"
	"github.com/crmarques/srvinv/inventory"
)

// SnapshotSource yields the current snapshot of a collection, or ok=false
// when none is available.
type SnapshotSource interface {
	Get(ctx context.Context, collection string, forceRefresh bool) (inventory.Snapshot, bool)
}

type Searcher struct {
	source SnapshotSource
}

func New(source SnapshotSource) *Searcher {
	return &Searcher{source: source}
}

// Query selects the objects of Collection whose Attribute matches Pattern.
type Query struct {
	Collection string
	Attribute  string
	Pattern    string
	// Refresh bypasses the freshness window.
	Refresh bool
}

// Search returns the matching objects in snapshot order. ok is false when the
// collection could not be obtained, which callers must tell apart from an
// empty result. err is set only for an invalid pattern.
func (s *Searcher) Search(ctx context.Context, query Query) (matches inventory.Snapshot, ok bool, err error) {
	glob, err := CompileGlob(query.Pattern)
	if err != nil {
		return nil, false, err
	}

	snapshot, ok := s.source.Get(ctx, query.Collection, query.Refresh)
	if !ok {
		return nil, false, nil
	}

	matches = Filter(snapshot, query.Attribute, glob)
	debugctx.Logger(ctx).V(debugctx.LevelCache).Info(
		"search",
		"collection", query.Collection,
		"attribute", query.Attribute,
		"pattern", query.Pattern,
		"matches", len(matches),
	)
	return matches, true, nil
}

// Filter keeps the objects holding attribute whose value matches glob.
func Filter(snapshot inventory.Snapshot, attribute string, glob *Glob) inventory.Snapshot {
	matches := inventory.Snapshot{}
	for _, object := range snapshot {
		value, ok := object.Attribute(attribute)
		if !ok {
			continue
		}
		if MatchValue(value, glob) {
			matches = append(matches, object)
		}
	}
	return matches
}

// MatchValue matches the value's text form. A list also matches when any of
// its scalar items does, so ["prod-web"] matches prod-*.
func MatchValue(value inventory.Value, glob *Glob) bool {
	if glob.Match(value.Text()) {
		return true
	}

	items, ok := value.AsList()
	if !ok {
		return false
	}
	for _, item := range items {
		switch item.Kind() {
		case inventory.KindList, inventory.KindMapping:
			continue
		}
		if glob.Match(item.Text()) {
			return true
		}
	}
	return false
}
