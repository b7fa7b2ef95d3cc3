package search

import (
	"context"
	"fmt"

	"github.com/arthur-debert/nanoreport/nanoreport"
	"github.com/arthur-debert/nanoreport/nanoreport/store"
)

// StoreProvider adapts a report directory to the ReportProvider interface
type StoreProvider struct {
	store *store.FileStore
}

// NewStoreProvider creates a provider reading every report in the store
func NewStoreProvider(s *store.FileStore) *StoreProvider {
	return &StoreProvider{store: s}
}

// Reports opens every report in the store
func (p *StoreProvider) Reports(ctx context.Context) ([]Document, error) {
	refs, err := p.store.List()
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(refs))
	for _, ref := range refs {
		r, err := nanoreport.Open(ctx, p.store, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", ref, err)
		}
		docs = append(docs, Document{Ref: ref, Report: r})
	}
	return docs, nil
}

// SearchStore is a convenience function that searches every report in a store
func SearchStore(ctx context.Context, s *store.FileStore, options Options) ([]Result, error) {
	return NewEngine(NewStoreProvider(s)).Search(ctx, options)
}
