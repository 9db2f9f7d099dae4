// ABOUTME: Markdown artifacts with YAML frontmatter, one file per prompt.
// ABOUTME: Imported files flow through the same normalizer as JSON payloads.

package transfer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harper/promptlib/internal/models"
)

type frontmatter struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	CreatedAt int64  `yaml:"createdAt"`
	UpdatedAt int64  `yaml:"updatedAt"`
	Rating    int    `yaml:"rating"`
}

// MarkdownFile renders p as a markdown document and returns a safe file name for it.
func MarkdownFile(p models.Prompt) (string, []byte, error) {
	fm, err := yaml.Marshal(frontmatter{
		ID:        p.ID,
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Rating:    p.Rating,
	})
	if err != nil {
		return "", nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(p.Content)
	buf.WriteString("\n")

	return markdownName(p, false), buf.Bytes(), nil
}

// markdownName is title plus a short id, or the full id when full is set.
func markdownName(p models.Prompt, full bool) string {
	id := shortID(p.ID)
	if full {
		id = sanitizeFilename(p.ID)
	}
	return sanitizeFilename(p.Title) + "-" + id + ".md"
}

// WriteMarkdownDir writes one markdown file per prompt into dir.
func WriteMarkdownDir(dir string, prompts []models.Prompt) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	used := make(map[string]bool, len(prompts))
	for _, p := range prompts {
		name, data, err := MarkdownFile(p)
		if err != nil {
			return err
		}
		if used[name] {
			name = markdownName(p, true)
		}
		for n := 2; used[name]; n++ {
			name = strings.TrimSuffix(markdownName(p, true), ".md") + fmt.Sprintf("-%d.md", n)
		}
		used[name] = true
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// ParseMarkdown reads a markdown file, or every .md file under a directory,
// and normalizes the result.
func ParseMarkdown(path string, opts ...Option) ([]models.Prompt, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var entries []any
	if info.IsDir() {
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, ".md") {
				return nil
			}
			entry, err := readMarkdownEntry(p)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entry, err := readMarkdownEntry(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	prompts := Normalize(entries, opts...)
	if len(prompts) == 0 {
		return nil, ErrNothingToImport
	}
	return prompts, nil
}

// readMarkdownEntry converts a markdown file into a loosely typed record.
// Without usable frontmatter the whole file is content and the file name is the title.
func readMarkdownEntry(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return nil, err
	}

	content := string(data)
	entry := map[string]any{}

	if head, body, ok := splitFrontmatter(content); ok {
		var fm map[string]any
		if err := yaml.Unmarshal([]byte(head), &fm); err == nil {
			for k, v := range fm {
				entry[k] = v
			}
			content = body
		}
	}

	if strings.TrimSpace(coerceText(entry["title"])) == "" {
		entry["title"] = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	entry["content"] = content
	return entry, nil
}

// splitFrontmatter separates a leading YAML block delimited by "---" lines.
// Delimiters only count when they stand alone on their line.
func splitFrontmatter(content string) (head, body string, ok bool) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	rest, found := strings.CutPrefix(content, "---\n")
	if !found {
		return "", "", false
	}
	if after, found := strings.CutPrefix(rest, "---\n"); found {
		return "", after, true
	}
	if i := strings.Index(rest, "\n---\n"); i >= 0 {
		return rest[:i+1], rest[i+len("\n---\n"):], true
	}
	if strings.HasSuffix(rest, "\n---") {
		return strings.TrimSuffix(rest, "---"), "", true
	}
	return "", "", false
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	name = replacer.Replace(name)
	return models.Truncate(name, 60)
}

func shortID(id string) string {
	return sanitizeFilename(models.Truncate(id, 8))
}
