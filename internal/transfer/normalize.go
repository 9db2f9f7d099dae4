// ABOUTME: Import normalizer turning untrusted payloads into well-formed prompts.
// ABOUTME: Coerces loosely typed fields and deduplicates ids within one batch.

package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/harper/promptlib/internal/models"
)

var (
	// ErrImportParse means the payload could not be decoded at all.
	ErrImportParse = errors.New("could not parse import payload")

	// ErrNothingToImport means the payload decoded but held no usable prompts.
	ErrNothingToImport = errors.New("nothing to import")
)

// payloadShape accepts a bare array or an object carrying an array under "prompts".
// The "schema" field is deliberately left unconstrained.
var payloadShape = jsonschema.MustCompileString("payload.json", `{
	"oneOf": [
		{"type": "array"},
		{
			"type": "object",
			"required": ["prompts"],
			"properties": {"prompts": {"type": "array"}}
		}
	]
}`)

type normalizer struct {
	clock models.Clock
	ids   models.IDGenerator
}

// Option configures Normalize and Parse.
type Option func(*normalizer)

// WithClock sets the time source used for missing timestamps.
func WithClock(c models.Clock) Option {
	return func(n *normalizer) {
		n.clock = c
	}
}

// WithIDGenerator sets the id source used for missing or duplicate ids.
func WithIDGenerator(g models.IDGenerator) Option {
	return func(n *normalizer) {
		n.ids = g
	}
}

func newNormalizer(opts []Option) *normalizer {
	n := &normalizer{clock: models.RealClock{}, ids: models.UUIDGenerator{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Parse decodes JSON bytes and normalizes them.
func Parse(data []byte, opts ...Option) ([]models.Prompt, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportParse, err)
	}

	prompts := Normalize(payload, opts...)
	if len(prompts) == 0 {
		return nil, ErrNothingToImport
	}
	return prompts, nil
}

// Normalize cleans an arbitrary decoded payload. Unknown shapes yield nil.
// Output order follows input order and ids are unique within the result;
// collisions with an existing store are left for the merge step.
func Normalize(payload any, opts ...Option) []models.Prompt {
	entries := entriesOf(payload)
	if len(entries) == 0 {
		return nil
	}

	n := newNormalizer(opts)
	now := models.NowMillis(n.clock)

	cleaned := make([]models.Prompt, 0, len(entries))
	for _, entry := range entries {
		// Falsy entries and scalars carry no fields; only objects survive.
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		p := n.clean(obj, now)
		if p.Title == "" || p.Content == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}

	seen := make(map[string]bool, len(cleaned))
	for i := range cleaned {
		if seen[cleaned[i].ID] {
			cleaned[i].ID = models.FreshID(n.ids, func(id string) bool { return seen[id] })
		}
		seen[cleaned[i].ID] = true
	}
	return cleaned
}

func entriesOf(payload any) []any {
	if payload == nil || payloadShape.Validate(payload) != nil {
		return nil
	}
	switch v := payload.(type) {
	case []any:
		return v
	case map[string]any:
		arr, _ := v["prompts"].([]any)
		return arr
	}
	return nil
}

func (n *normalizer) clean(obj map[string]any, now int64) models.Prompt {
	var id string
	if raw, ok := obj["id"]; ok && raw != nil {
		id = coerceText(raw)
	}
	if id == "" {
		id = n.ids.New()
	}

	createdAt, ok := coerceMillis(obj["createdAt"])
	if !ok {
		createdAt = now
	}
	updatedAt, ok := coerceMillis(obj["updatedAt"])
	if !ok || updatedAt < createdAt {
		updatedAt = createdAt
	}

	rating := 0
	if f, ok := coerceNumber(obj["rating"]); ok {
		rating = models.ClampRating(clampToInt(f))
	}

	return models.Prompt{
		ID:        id,
		Title:     models.TrimTitle(coerceText(obj["title"])),
		Content:   models.TrimContent(coerceText(obj["content"])),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Rating:    rating,
	}
}

// coerceText renders a decoded value the way a loosely typed source would
// stringify it.
func coerceText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = coerceText(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(x)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// coerceNumber accepts numbers, numeric strings, and booleans.
func coerceNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if x {
			f = 1
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// coerceMillis reads an epoch-millisecond timestamp, truncating fractions.
func coerceMillis(v any) (int64, bool) {
	if t, ok := v.(time.Time); ok {
		return t.UnixMilli(), true
	}
	if _, ok := v.(bool); ok {
		return 0, false
	}
	f, ok := coerceNumber(v)
	if !ok || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return int64(math.Trunc(f)), true
}

func clampToInt(f float64) int {
	f = math.Trunc(f)
	if f > float64(models.MaxRating) {
		return models.MaxRating
	}
	if f < float64(models.MinRating) {
		return models.MinRating
	}
	return int(f)
}
