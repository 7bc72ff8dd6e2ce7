// ABOUTME: Sources backed by the page archive: tee live pages into it, or replay from it.
// ABOUTME: Replay lets a run be repeated offline against exactly the pages seen before.
package ingest

import (
	"context"
	"fmt"

	"github.com/harperreed/exercises/internal/archive"
)

// ArchivingSource fetches from Source and stores every page it returns.
type ArchivingSource struct {
	Source  Source
	Archive archive.Store
}

// Page fetches pageURL and archives the body before returning it.
func (s *ArchivingSource) Page(ctx context.Context, pageURL string) ([]byte, error) {
	body, err := s.Source.Page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if err := s.Archive.Put(ctx, archive.PageKey(pageURL), body); err != nil {
		return nil, fmt.Errorf("archive page: %w", err)
	}
	return body, nil
}

// ReplaySource serves pages from the archive only.
type ReplaySource struct {
	Archive archive.Store
}

// Page returns the archived body for pageURL, or archive.ErrNotFound.
func (s *ReplaySource) Page(ctx context.Context, pageURL string) ([]byte, error) {
	body, err := s.Archive.Get(ctx, archive.PageKey(pageURL))
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", pageURL, err)
	}
	return body, nil
}
