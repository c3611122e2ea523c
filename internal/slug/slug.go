// Package slug implements canonical slugification and the round-trip
// mapping between (owner, repo, number, title) and synced filenames.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	wsOrUnderscore = regexp.MustCompile(`[\s_]+`)
	notSlugChar    = regexp.MustCompile(`[^a-z0-9\-]`)
	multiDash      = regexp.MustCompile(`-+`)

	wsOrDash        = regexp.MustCompile(`[\s\-]+`)
	notColumnIDChar = regexp.MustCompile(`[^a-z0-9_]`)
	multiUnderscore = regexp.MustCompile(`_+`)
)

// toASCII mirrors Python's unicodedata.normalize("NFKD", s).encode("ascii",
// "ignore").decode("ascii"): NFKD-normalize, then drop every rune that does
// not fit in the ASCII range (the normalization step turns accented letters
// into a base letter plus a combining mark, which this then discards).
func toASCII(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugify converts text to a filesystem-safe slug. Empty results are
// permitted; callers substitute "untitled".
func Slugify(text string) string {
	s := toASCII(text)
	s = strings.ToLower(s)
	s = wsOrUnderscore.ReplaceAllString(s, "-")
	s = notSlugChar.ReplaceAllString(s, "")
	s = multiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugifyColumnID converts a remote status option name to a valid column
// id: lowercase snake_case, starting with a letter (digits get a "col_"
// prefix), never empty (falls back to "unknown"). This is the single
// definition of the remote-status -> local-column-id mapping.
func SlugifyColumnID(name string) string {
	s := toASCII(name)
	s = strings.ToLower(s)
	s = wsOrDash.ReplaceAllString(s, "_")
	s = notColumnIDChar.ReplaceAllString(s, "")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "col_" + s
	}
	if s == "" {
		s = "unknown"
	}
	return s
}

// syncedFilenamePattern matches "{owner}-{repo}#{number}-{slug}.md". The
// match is greedy on owner: a known limitation with hyphenated owners,
// accepted because the authoritative identity is the #number, not the slug.
var syncedFilenamePattern = regexp.MustCompile(`^([A-Za-z0-9_.-]+)-([A-Za-z0-9_.-]+)#(\d+)-(.+)\.md$`)

// ParsedSyncedFilename is the decomposition of a synced filename.
type ParsedSyncedFilename struct {
	Owner  string
	Repo   string
	Number int
	Slug   string
}

// Repository returns "owner/repo".
func (p ParsedSyncedFilename) Repository() string {
	return p.Owner + "/" + p.Repo
}

// IssueID returns "owner/repo#number".
func (p ParsedSyncedFilename) IssueID() string {
	return p.Repository() + "#" + strconv.Itoa(p.Number)
}

// GenerateSyncedFilename produces "{owner}-{repo}#{number}-{slug}.md".
func GenerateSyncedFilename(owner, repo string, number int, title string) string {
	s := Slugify(title)
	if s == "" {
		s = "untitled"
	}
	return owner + "-" + repo + "#" + strconv.Itoa(number) + "-" + s + ".md"
}

// ParseSyncedFilename decomposes a synced filename, or returns ok=false if
// the name does not match the pattern.
func ParseSyncedFilename(name string) (ParsedSyncedFilename, bool) {
	m := syncedFilenamePattern.FindStringSubmatch(name)
	if m == nil {
		return ParsedSyncedFilename{}, false
	}
	number, err := strconv.Atoi(m[3])
	if err != nil {
		return ParsedSyncedFilename{}, false
	}
	return ParsedSyncedFilename{
		Owner:  m[1],
		Repo:   m[2],
		Number: number,
		Slug:   m[4],
	}, true
}

// IsSyncedFilename reports whether name matches the synced filename pattern.
func IsSyncedFilename(name string) bool {
	_, ok := ParseSyncedFilename(name)
	return ok
}

// IsLocalOnlyFilename reports whether name is a .md file that is not a
// synced filename.
func IsLocalOnlyFilename(name string) bool {
	if !strings.HasSuffix(name, ".md") {
		return false
	}
	return !IsSyncedFilename(name)
}

// GenerateFilename produces a plain "{slug}.md" filename for a local-only
// task, falling back to "untitled.md" when the title slugifies to empty.
func GenerateFilename(title string) string {
	s := Slugify(title)
	if s == "" {
		s = "untitled"
	}
	return s + ".md"
}
