// ABOUTME: Merge of normalized imports into the store.
// ABOUTME: Newer records win by updatedAt; the result is persisted once.

package store

import (
	"go.uber.org/zap"

	"github.com/harper/promptlib/internal/models"
)

// MergeResult counts what an import changed.
type MergeResult struct {
	Added   int
	Updated int
}

// Merge folds incoming records into the store in order. Unknown ids are
// inserted. Known ids are replaced only when the incoming updatedAt is
// strictly newer. The merged collection is saved exactly once.
func (s *Store) Merge(incoming []models.Prompt) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]models.Prompt, len(s.records)+len(incoming))
	for id, p := range s.records {
		next[id] = p
	}

	var res MergeResult
	for _, rec := range incoming {
		existing, ok := next[rec.ID]
		switch {
		case !ok:
			next[rec.ID] = rec
			res.Added++
		case rec.UpdatedAt > existing.UpdatedAt:
			next[rec.ID] = rec
			res.Updated++
		}
	}

	s.records = next
	s.log.Info("merged import",
		zap.Int("incoming", len(incoming)),
		zap.Int("added", res.Added),
		zap.Int("updated", res.Updated))

	return res, s.save("merge")
}
