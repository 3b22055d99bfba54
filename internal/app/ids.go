package app

import (
	"strings"

	"github.com/google/uuid"
)

// newID builds a short prefixed identifier, e.g. "eval_3f2a9c81d04b".
func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
