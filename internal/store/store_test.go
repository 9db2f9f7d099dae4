// ABOUTME: Tests for the record store.
// ABOUTME: Uses a counting persister and a stub clock for determinism.

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/harper/promptlib/internal/kv"
	"github.com/harper/promptlib/internal/logging"
	"github.com/harper/promptlib/internal/models"
	"github.com/harper/promptlib/internal/testutil"
)

type countingPersister struct {
	data  []byte
	saves int
	fail  error
}

func (p *countingPersister) Load() ([]byte, error) {
	return p.data, nil
}

func (p *countingPersister) Save(data []byte) error {
	p.saves++
	if p.fail != nil {
		return p.fail
	}
	p.data = append([]byte(nil), data...)
	return nil
}

func setupStore(t *testing.T) (*Store, *countingPersister, *testutil.StubClock) {
	t.Helper()
	p := &countingPersister{}
	clock := testutil.FixedClock()
	s, err := Open(p, WithClock(clock), WithIDGenerator(testutil.NewStubIDGenerator()))
	require.NoError(t, err)
	return s, p, clock
}

func TestCreateRejectsEmptyFields(t *testing.T) {
	s, p, _ := setupStore(t)

	for _, tc := range [][2]string{{"", "x"}, {"x", ""}, {"   ", "x"}, {"x", "\n\t"}} {
		_, err := s.Create(tc[0], tc[1])
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "missing title or content", verr.Msg)
	}
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, p.saves)
}

func TestCreate(t *testing.T) {
	s, p, clock := setupStore(t)

	rec, err := s.Create("  T  ", " C ")
	require.NoError(t, err)

	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, "T", rec.Title)
	assert.Equal(t, "C", rec.Content)
	assert.Equal(t, 0, rec.Rating)
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	assert.Equal(t, clock.Millis(), rec.CreatedAt)
	assert.Equal(t, 1, p.saves)

	got, ok := s.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestCreateTruncates(t *testing.T) {
	s, _, _ := setupStore(t)

	rec, err := s.Create(strings.Repeat("t", 200), strings.Repeat("c", 9000))
	require.NoError(t, err)
	assert.Len(t, rec.Title, models.MaxTitleLen)
	assert.Len(t, rec.Content, models.MaxContentLen)
}

func TestCreateAvoidsTakenIDs(t *testing.T) {
	p := &countingPersister{}
	s, err := Open(p,
		WithClock(testutil.FixedClock()),
		WithIDGenerator(testutil.NewRepeatIDGenerator("same", "same", "other")))
	require.NoError(t, err)

	a, err := s.Create("a", "a")
	require.NoError(t, err)
	b, err := s.Create("b", "b")
	require.NoError(t, err)

	assert.Equal(t, "same", a.ID)
	assert.Equal(t, "other", b.ID)
	assert.Equal(t, 2, s.Len())
}

func TestRateIdempotent(t *testing.T) {
	s, p, clock := setupStore(t)
	rec, err := s.Create("T", "C")
	require.NoError(t, err)

	clock.Advance(time.Second)
	ok, err := s.Rate(rec.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)
	first, _ := s.Get(rec.ID)
	assert.Equal(t, 3, first.Rating)
	assert.Greater(t, first.UpdatedAt, rec.UpdatedAt)
	savesAfterFirst := p.saves

	clock.Advance(time.Second)
	ok, err = s.Rate(rec.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)
	second, _ := s.Get(rec.ID)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	assert.Equal(t, savesAfterFirst, p.saves, "no-op rate must not write")

	ok, err = s.Rate(rec.ID, 4)
	require.NoError(t, err)
	require.True(t, ok)
	third, _ := s.Get(rec.ID)
	assert.Equal(t, 4, third.Rating)
	assert.Greater(t, third.UpdatedAt, second.UpdatedAt)
}

func TestRateAdvancesWithFrozenClock(t *testing.T) {
	s, _, _ := setupStore(t)
	rec, err := s.Create("T", "C")
	require.NoError(t, err)

	_, err = s.Rate(rec.ID, 2)
	require.NoError(t, err)
	got, _ := s.Get(rec.ID)
	assert.Equal(t, rec.UpdatedAt+1, got.UpdatedAt)
}

func TestRateClamps(t *testing.T) {
	s, _, _ := setupStore(t)
	rec, err := s.Create("T", "C")
	require.NoError(t, err)

	_, err = s.Rate(rec.ID, 42)
	require.NoError(t, err)
	got, _ := s.Get(rec.ID)
	assert.Equal(t, 5, got.Rating)

	_, err = s.Rate(rec.ID, -1)
	require.NoError(t, err)
	got, _ = s.Get(rec.ID)
	assert.Equal(t, 0, got.Rating)
}

func TestMissingIDLeavesStoreUnchanged(t *testing.T) {
	s, p, _ := setupStore(t)
	rec, err := s.Create("T", "C")
	require.NoError(t, err)
	before := s.Snapshot()
	saves := p.saves

	ok, err := s.Rate("missing-id", 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete("missing-id")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, saves, p.saves)
	_, found := s.Get(rec.ID)
	assert.True(t, found)
}

func TestDelete(t *testing.T) {
	s, p, _ := setupStore(t)
	rec, err := s.Create("T", "C")
	require.NoError(t, err)

	ok, err := s.Delete(rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 2, p.saves)
	assert.JSONEq(t, `[]`, string(p.data))
}

func TestPersistFailureKeepsChange(t *testing.T) {
	s, p, _ := setupStore(t)
	p.fail = errors.New("disk full")

	rec, err := s.Create("T", "C")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	var perr *PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "create", perr.Op)
	assert.Contains(t, err.Error(), "disk full")

	_, ok := s.Get(rec.ID)
	assert.True(t, ok, "in-memory change should survive a failed save")
}

func TestOpenLoadsAndCleans(t *testing.T) {
	p := &countingPersister{data: []byte(`[
		{"id":"a","title":"A","content":"x","createdAt":5,"updatedAt":1,"rating":9},
		{"id":"b","title":"","content":"dropped"},
		{"id":"a","title":"dup","content":"y","createdAt":1,"updatedAt":1}
	]`)}
	s, err := Open(p, WithClock(testutil.FixedClock()), WithIDGenerator(testutil.NewStubIDGenerator()))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	a, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 5, a.Rating)
	assert.Equal(t, int64(5), a.UpdatedAt)
	for _, rec := range s.Snapshot() {
		assert.True(t, rec.Valid(), "%+v", rec)
	}
	assert.Equal(t, 0, p.saves)
}

func TestOpenCorruptDataStartsEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := &countingPersister{data: []byte(`{broken`)}
	s, err := Open(p, WithLogger(logging.Writer(&buf, zapcore.WarnLevel)))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Contains(t, buf.String(), "not valid JSON")
}

func TestOpenLoadError(t *testing.T) {
	_, err := Open(failingLoader{})
	require.Error(t, err)
}

type failingLoader struct{}

func (failingLoader) Load() ([]byte, error) { return nil, errors.New("boom") }
func (failingLoader) Save([]byte) error     { return nil }

func TestReopenThroughSlot(t *testing.T) {
	slot := kv.NewSlot(kv.NewMemoryStore(), kv.RecordsKey)

	s, err := Open(slot)
	require.NoError(t, err)
	rec, err := s.Create("Persisted", "body")
	require.NoError(t, err)
	_, err = s.Rate(rec.ID, 4)
	require.NoError(t, err)

	reopened, err := Open(slot)
	require.NoError(t, err)
	got, ok := reopened.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, "Persisted", got.Title)
	assert.Equal(t, 4, got.Rating)

	raw, err := slot.Load()
	require.NoError(t, err)
	var list []models.Prompt
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)
}

func TestResolve(t *testing.T) {
	p := &countingPersister{}
	s, err := Open(p, WithIDGenerator(testutil.NewRepeatIDGenerator("abcdef-1", "abcdef-2", "zzzzzz-1")))
	require.NoError(t, err)
	for _, title := range []string{"one", "two", "three"} {
		_, err := s.Create(title, "c")
		require.NoError(t, err)
	}

	got, err := s.Resolve("abcdef-1")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Title)

	got, err = s.Resolve("zzzzzz")
	require.NoError(t, err)
	assert.Equal(t, "three", got.Title)

	_, err = s.Resolve("abcdef")
	assert.ErrorIs(t, err, ErrAmbiguousPrefix)

	_, err = s.Resolve("abc")
	assert.ErrorIs(t, err, ErrPrefixTooShort)

	_, err = s.Resolve("nothere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotIsCopy(t *testing.T) {
	s, _, _ := setupStore(t)
	rec, err := s.Create("T", "C")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap[0].Title = "changed"

	got, _ := s.Get(rec.ID)
	assert.Equal(t, "T", got.Title)
}
