// ABOUTME: Query engine producing filtered, sorted views of the prompt collection.
// ABOUTME: Pure functions: text filter, rating filter, then a stable sort.

package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/harper/promptlib/internal/models"
)

// SortMode names an ordering of the result.
type SortMode string

const (
	UpdatedDesc SortMode = "updatedDesc"
	CreatedDesc SortMode = "createdDesc"
	RatingDesc  SortMode = "ratingDesc"
	TitleAsc    SortMode = "titleAsc"
	TitleDesc   SortMode = "titleDesc"
)

// SortModes lists every supported mode, default first.
var SortModes = []SortMode{UpdatedDesc, CreatedDesc, RatingDesc, TitleAsc, TitleDesc}

// ParseSort maps a name to a SortMode. Unknown names fall back to UpdatedDesc.
func ParseSort(name string) SortMode {
	for _, m := range SortModes {
		if strings.EqualFold(string(m), strings.TrimSpace(name)) {
			return m
		}
	}
	return UpdatedDesc
}

// RatingFilter is either "all" (the zero value) or an exact rating in [1,5].
type RatingFilter struct {
	target int
}

// AllRatings matches every record.
var AllRatings = RatingFilter{}

// Rating returns a filter for exactly r, clamped into [1,5].
func Rating(r int) RatingFilter {
	return RatingFilter{target: min(max(r, 1), models.MaxRating)}
}

// ParseRatingFilter accepts "all", "" or a number.
func ParseRatingFilter(s string) (RatingFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllRatings, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return AllRatings, fmt.Errorf("invalid rating filter %q: use all or 1-5", s)
	}
	return Rating(n), nil
}

// All reports whether the filter matches everything.
func (f RatingFilter) All() bool {
	return f.target == 0
}

// Target returns the exact rating matched, or 0 for "all".
func (f RatingFilter) Target() int {
	return f.target
}

func (f RatingFilter) String() string {
	if f.All() {
		return "all"
	}
	return strconv.Itoa(f.target)
}

func (f RatingFilter) match(p models.Prompt) bool {
	return f.All() || models.ClampRating(p.Rating) == f.target
}

// Options selects and orders records. The zero value returns everything by UpdatedDesc.
type Options struct {
	Text   string
	Rating RatingFilter
	Sort   SortMode
	Limit  int
	Locale string
}

// Run applies text filter, rating filter and sort, then the limit. The input is not modified.
func Run(records []models.Prompt, opts Options) []models.Prompt {
	needle := strings.ToLower(strings.TrimSpace(opts.Text))

	out := make([]models.Prompt, 0, len(records))
	for _, p := range records {
		if !matchText(p, needle) || !opts.Rating.match(p) {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, comparator(ParseSort(string(opts.Sort)), opts.Locale))

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// matchText checks title and content separately so a match never spans both.
func matchText(p models.Prompt, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Content), needle)
}

func comparator(mode SortMode, locale string) func(a, b models.Prompt) int {
	switch mode {
	case CreatedDesc:
		return func(a, b models.Prompt) int {
			return cmpDesc(a.CreatedAt, b.CreatedAt)
		}
	case RatingDesc:
		return func(a, b models.Prompt) int {
			if c := cmpDesc(models.ClampRating(a.Rating), models.ClampRating(b.Rating)); c != 0 {
				return c
			}
			return cmpDesc(a.UpdatedAt, b.UpdatedAt)
		}
	case TitleAsc, TitleDesc:
		col := collator(locale)
		sign := 1
		if mode == TitleDesc {
			sign = -1
		}
		return func(a, b models.Prompt) int {
			return sign * col.CompareString(a.Title, b.Title)
		}
	default:
		return func(a, b models.Prompt) int {
			return cmpDesc(a.UpdatedAt, b.UpdatedAt)
		}
	}
}

func collator(locale string) *collate.Collator {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return collate.New(tag)
}

func cmpDesc[T int | int64](a, b T) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
