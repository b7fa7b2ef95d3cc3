package nanoreport

import (
	"context"
	"fmt"
)

// Source fetches and stores report envelopes. Implementations own the
// transport; the report model never performs I/O itself.
type Source interface {
	Fetch(ctx context.Context, ref string) (map[string]interface{}, error)
	Save(ctx context.Context, ref string, envelope map[string]interface{}) error
}

// Open fetches the report stored under ref
func Open(ctx context.Context, src Source, ref string) (*Report, error) {
	envelope, err := src.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report %s: %w", ref, err)
	}
	r, err := FromEnvelope(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", ref, err)
	}
	return r, nil
}

// Save stores the report under ref and clears its modified flag
func (r *Report) Save(ctx context.Context, dst Source, ref string) error {
	if err := dst.Save(ctx, ref, r.Envelope()); err != nil {
		return fmt.Errorf("failed to save report %s: %w", ref, err)
	}
	logger.Debug("saved report", "ref", ref, "id", r.ID())
	r.ClearModified()
	return nil
}
