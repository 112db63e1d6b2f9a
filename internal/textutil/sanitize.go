package textutil

import "strings"

// fileNameReplacer maps characters that are illegal on common filesystems
// to underscores.
var fileNameReplacer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// SanitizeFileName replaces filesystem-illegal characters with underscores,
// collapses internal whitespace runs to single spaces, and trims the result.
// The transformation is idempotent: sanitizing an already-sanitized name
// returns it unchanged.
func SanitizeFileName(name string) string {
	safe := fileNameReplacer.Replace(name)
	return strings.Join(strings.Fields(safe), " ")
}
