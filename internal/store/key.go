// Package store defines shared helpers for result store providers.
package store

import (
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^\w\s-]`)

// ObjectKey derives the storage key for an entity record. The entity name is
// stripped of punctuation and spaces become underscores, so repeat runs for
// the same entity land on the same key.
func ObjectKey(entityName string) string {
	cleaned := unsafeChars.ReplaceAllString(entityName, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), "_")
	if cleaned == "" {
		cleaned = "unnamed"
	}
	return cleaned + ".json"
}
