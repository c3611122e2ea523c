package slug

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Fix Login Bug", "fix-login-bug"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Café Con Leche", "cafe-con-leche"},
		{"snake_case_title", "snake-case-title"},
		{"Already-Dashed", "already-dashed"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyColumnID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"In Progress", "in_progress"},
		{"To-Do", "to_do"},
		{"Done", "done"},
	}
	for _, c := range cases {
		if got := SlugifyColumnID(c.in); got != c.want {
			t.Errorf("SlugifyColumnID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGenerateFilenameFallsBackToUntitled(t *testing.T) {
	if got := GenerateFilename("!!!"); got != "untitled.md" {
		t.Errorf("GenerateFilename(%q) = %q, want untitled.md", "!!!", got)
	}
}

func TestGenerateAndParseSyncedFilenameRoundTrip(t *testing.T) {
	name := GenerateSyncedFilename("acme", "proj", 7, "Fix Login")
	want := "acme-proj#7-fix-login.md"
	if name != want {
		t.Fatalf("GenerateSyncedFilename = %q, want %q", name, want)
	}

	parsed, ok := ParseSyncedFilename(name)
	if !ok {
		t.Fatalf("ParseSyncedFilename(%q) failed to parse", name)
	}
	if parsed.Repository() != "acme/proj" {
		t.Errorf("Repository() = %q, want acme/proj", parsed.Repository())
	}
	if parsed.IssueID() != "acme/proj#7" {
		t.Errorf("IssueID() = %q, want acme/proj#7", parsed.IssueID())
	}
	if !IsSyncedFilename(name) {
		t.Errorf("IsSyncedFilename(%q) = false, want true", name)
	}
	if IsLocalOnlyFilename(name) {
		t.Errorf("IsLocalOnlyFilename(%q) = true, want false", name)
	}
}

func TestIsLocalOnlyFilename(t *testing.T) {
	if !IsLocalOnlyFilename("fix-thing.md") {
		t.Errorf("expected fix-thing.md to be local-only")
	}
	if IsLocalOnlyFilename("acme-proj#7-fix-login.md") {
		t.Errorf("expected a synced filename to not be local-only")
	}
	if IsLocalOnlyFilename("notes.txt") {
		t.Errorf("expected a non-.md file to not be local-only")
	}
}
