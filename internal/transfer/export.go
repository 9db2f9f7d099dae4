// ABOUTME: JSON export artifact for the prompt library.
// ABOUTME: Builds the versioned envelope and the dated download file name.

package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/promptlib/internal/models"
)

// Schema tags every export envelope.
const Schema = "prompt-library:v1"

// Envelope is the exported document.
type Envelope struct {
	Schema     string          `json:"schema"`
	ExportedAt int64           `json:"exportedAt"`
	Prompts    []models.Prompt `json:"prompts"`
}

// NewEnvelope wraps prompts, in the order given, stamped with now.
func NewEnvelope(prompts []models.Prompt, now time.Time) Envelope {
	list := make([]models.Prompt, len(prompts))
	copy(list, prompts)
	return Envelope{
		Schema:     Schema,
		ExportedAt: now.UnixMilli(),
		Prompts:    list,
	}
}

// Encode renders the envelope as two-space indented JSON.
func (e Envelope) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// ExportFileName returns prompt-library-<YYYY-MM-DD>.json for the UTC date of t.
func ExportFileName(t time.Time) string {
	return "prompt-library-" + t.UTC().Format("2006-01-02") + ".json"
}
