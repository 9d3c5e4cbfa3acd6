package handlers

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	apperrors "github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

var strictPolicy = bluemonday.StrictPolicy()

const maxCleanPasses = 4

// clean strips markup from free text and trims it. Entities are decoded so the stored
// value is plain text, and the strip repeats until decoding exposes no further markup.
func clean(s string) string {
	for i := 0; i < maxCleanPasses; i++ {
		next := html.UnescapeString(strictPolicy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

func cleanAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = clean(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// requireFields takes name/value pairs and fails with the names whose value is empty.
func requireFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewValidationError(strings.Join(missing, ", ")+" required", map[string]any{"missing": missing})
}

func invalidValue(field string, value any) error {
	return apperrors.NewValidationError("invalid "+field, map[string]any{field: value})
}
