// ABOUTME: Record store owning the prompt collection.
// ABOUTME: Every mutation persists the whole collection once before returning.

package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/harper/promptlib/internal/models"
	"github.com/harper/promptlib/internal/transfer"
)

// MinPrefixLen is the shortest id prefix Resolve accepts.
const MinPrefixLen = 6

// Persister loads and saves the serialized collection.
// Load returns nil, nil when nothing has been saved yet.
type Persister interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store holds prompts keyed by id. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	records map[string]models.Prompt
	persist Persister
	clock   models.Clock
	ids     models.IDGenerator
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

func WithClock(c models.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

func WithIDGenerator(g models.IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open loads the collection through p. Stored data passes through the import
// normalizer so a hand-edited blob cannot break the record invariants.
func Open(p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		records: make(map[string]models.Prompt),
		persist: p,
		clock:   models.RealClock{},
		ids:     models.UUIDGenerator{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		s.log.Warn("stored prompt library is not valid JSON, starting empty", zap.Error(err))
		return s, nil
	}
	for _, rec := range transfer.Normalize(payload, transfer.WithClock(s.clock), transfer.WithIDGenerator(s.ids)) {
		s.records[rec.ID] = rec
	}
	s.log.Debug("store loaded", zap.Int("count", len(s.records)))
	return s, nil
}

// Create adds a new unrated prompt.
func (s *Store) Create(title, content string) (models.Prompt, error) {
	title = models.TrimTitle(title)
	content = models.TrimContent(content)
	if title == "" || content == "" {
		return models.Prompt{}, &ValidationError{Msg: "missing title or content"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := models.FreshID(s.ids, func(id string) bool {
		_, ok := s.records[id]
		return ok
	})
	p := models.NewPrompt(id, title, content, models.NowMillis(s.clock))
	s.records[id] = p

	return p, s.save("create")
}

// Rate sets a prompt's rating. It reports false for an unknown id. Setting the
// rating a prompt already has changes nothing and writes nothing.
func (s *Store) Rate(id string, rating int) (bool, error) {
	rating = models.ClampRating(rating)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[id]
	if !ok {
		return false, nil
	}
	if p.Rating == rating {
		return true, nil
	}

	p.Rating = rating
	p.UpdatedAt = max(models.NowMillis(s.clock), p.UpdatedAt+1)
	s.records[id] = p

	return true, s.save("rate")
}

// Delete removes a prompt permanently. It reports false for an unknown id.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)

	return true, s.save("delete")
}

// Get returns the prompt with exactly this id.
func (s *Store) Get(id string) (models.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[id]
	return p, ok
}

// Resolve finds a prompt by full id or by a unique prefix.
func (s *Store) Resolve(ref string) (models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.records[ref]; ok {
		return p, nil
	}
	if len(ref) < MinPrefixLen {
		return models.Prompt{}, ErrPrefixTooShort
	}

	var match models.Prompt
	found := 0
	for id, p := range s.records {
		if strings.HasPrefix(id, ref) {
			match = p
			found++
		}
	}
	switch found {
	case 0:
		return models.Prompt{}, ErrNotFound
	case 1:
		return match, nil
	default:
		return models.Prompt{}, fmt.Errorf("%w: %s matches %d prompts", ErrAmbiguousPrefix, ref, found)
	}
}

// Snapshot returns a copy of every record in no particular order.
func (s *Store) Snapshot() []models.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Prompt, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, p)
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// save writes the whole collection. Callers hold s.mu.
func (s *Store) save(op string) error {
	list := make([]models.Prompt, 0, len(s.records))
	for _, p := range s.records {
		list = append(list, p)
	}

	data, err := json.Marshal(list)
	if err == nil {
		err = s.persist.Save(data)
	}
	if err != nil {
		s.log.Warn("persist failed", zap.String("op", op), zap.Error(err))
		return &PersistError{Op: op, Err: err}
	}
	s.log.Debug("persisted", zap.String("op", op), zap.Int("count", len(list)))
	return nil
}
