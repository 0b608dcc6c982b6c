package filename

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Secure returns an ASCII-only version of name that is safe to join onto a
// directory: accents are folded, path separators become word breaks,
// whitespace runs become underscores and leading/trailing dots and
// underscores are dropped. The result may be empty.
func Secure(name string) string {
	decomposed := norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range decomposed {
		if r < 0x80 {
			ascii.WriteRune(r)
		}
	}

	cleaned := strings.NewReplacer("/", " ", "\\", " ").Replace(ascii.String())
	cleaned = strings.Join(strings.Fields(cleaned), "_")
	cleaned = unsafeChars.ReplaceAllString(cleaned, "")
	return strings.Trim(cleaned, "._")
}
