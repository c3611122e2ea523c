// Package config implements the Config Model (C3): board columns, types,
// and priorities, their aliases, and provider/task-root selection. Loading
// is adapted from the teacher's internal/config/config.go, which used
// spf13/viper for search-path resolution and env overrides; the shape of
// Config itself is redesigned to match spec §3/§4.3/§6 (a single board, not
// the teacher's multi-workspace map).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Provider selects which store backs the board.
type Provider string

const (
	ProviderFile   Provider = "file"
	ProviderRemote Provider = "remote"
)

var identifierRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

const reservedID = "archived"

// Column is one board column.
type Column struct {
	ID          string   `mapstructure:"id" yaml:"id"`
	Title       string   `mapstructure:"title" yaml:"title"`
	StatusAlias []string `mapstructure:"status_alias" yaml:"status_alias,omitempty"`
}

// TypeDef is one task type.
type TypeDef struct {
	ID             string   `mapstructure:"id" yaml:"id"`
	Template       string   `mapstructure:"template" yaml:"template,omitempty"`
	Color          string   `mapstructure:"color" yaml:"color,omitempty"`
	TypeAlias      []string `mapstructure:"type_alias" yaml:"type_alias,omitempty"`
	CanonicalAlias string   `mapstructure:"canonical_alias" yaml:"canonical_alias,omitempty"`
}

// TemplateFilename returns the type's template filename, defaulting to
// "{id}.md".
func (t TypeDef) TemplateFilename() string {
	if t.Template != "" {
		return t.Template
	}
	return t.ID + ".md"
}

// WriteAlias returns the string to write to the remote: CanonicalAlias if
// set, otherwise ID. This is the single place that decides the spelling
// used when pushing a type to the remote.
func (t TypeDef) WriteAlias() string {
	if t.CanonicalAlias != "" {
		return t.CanonicalAlias
	}
	return t.ID
}

// Priority is one priority level. Priorities are ordered lowest to highest
// by their position in BoardConfig.Priorities.
type Priority struct {
	ID             string   `mapstructure:"id" yaml:"id"`
	Label          string   `mapstructure:"label" yaml:"label"`
	Color          string   `mapstructure:"color" yaml:"color,omitempty"`
	Symbol         string   `mapstructure:"symbol" yaml:"symbol,omitempty"`
	PriorityAlias  []string `mapstructure:"priority_alias" yaml:"priority_alias,omitempty"`
	CanonicalAlias string   `mapstructure:"canonical_alias" yaml:"canonical_alias,omitempty"`
}

// WriteAlias returns the string to write to the remote: CanonicalAlias if
// set, otherwise ID.
func (p Priority) WriteAlias() string {
	if p.CanonicalAlias != "" {
		return p.CanonicalAlias
	}
	return p.ID
}

// BoardConfig holds columns, types, and priorities plus their lookup rules.
type BoardConfig struct {
	Columns    []Column   `mapstructure:"columns" yaml:"columns"`
	Types      []TypeDef  `mapstructure:"types" yaml:"types"`
	Priorities []Priority `mapstructure:"priorities" yaml:"priorities"`
}

// ColumnIDs returns column ids in display order.
func (b BoardConfig) ColumnIDs() []string {
	ids := make([]string, len(b.Columns))
	for i, c := range b.Columns {
		ids[i] = c.ID
	}
	return ids
}

// TypeIDs returns type ids in display order.
func (b BoardConfig) TypeIDs() []string {
	ids := make([]string, len(b.Types))
	for i, t := range b.Types {
		ids[i] = t.ID
	}
	return ids
}

// PriorityIDs returns priority ids, lowest to highest.
func (b BoardConfig) PriorityIDs() []string {
	ids := make([]string, len(b.Priorities))
	for i, p := range b.Priorities {
		ids[i] = p.ID
	}
	return ids
}

// GetTitle returns the display title for a column id, falling back to a
// title-cased rendering of the id if unknown.
func (b BoardConfig) GetTitle(columnID string) string {
	for _, c := range b.Columns {
		if c.ID == columnID {
			return c.Title
		}
	}
	return strings.Title(strings.ReplaceAll(columnID, "_", " ")) //nolint:staticcheck
}

// GetType returns the TypeDef for id, or false if not found.
func (b BoardConfig) GetType(id string) (TypeDef, bool) {
	for _, t := range b.Types {
		if t.ID == id {
			return t, true
		}
	}
	return TypeDef{}, false
}

// GetPriority returns the Priority for id, or false if not found.
func (b BoardConfig) GetPriority(id string) (Priority, bool) {
	for _, p := range b.Priorities {
		if p.ID == id {
			return p, true
		}
	}
	return Priority{}, false
}

// ResolveStatus maps a status (id or alias) to its canonical column id.
// Unknown inputs pass through unchanged for graceful degradation.
func (b BoardConfig) ResolveStatus(status string) string {
	for _, id := range b.ColumnIDs() {
		if status == id {
			return status
		}
	}
	for _, c := range b.Columns {
		for _, a := range c.StatusAlias {
			if a == status {
				return c.ID
			}
		}
	}
	return status
}

// ResolveType maps a type value (id or alias) to its canonical type id.
func (b BoardConfig) ResolveType(value string) string {
	for _, id := range b.TypeIDs() {
		if value == id {
			return value
		}
	}
	for _, t := range b.Types {
		for _, a := range t.TypeAlias {
			if a == value {
				return t.ID
			}
		}
	}
	return value
}

// ResolvePriority maps a priority value (id or alias) to its canonical id.
func (b BoardConfig) ResolvePriority(value string) string {
	for _, id := range b.PriorityIDs() {
		if value == id {
			return value
		}
	}
	for _, p := range b.Priorities {
		for _, a := range p.PriorityAlias {
			if a == value {
				return p.ID
			}
		}
	}
	return value
}

// GetColumnForStatus returns the column id for status (including aliases
// and the reserved "archived"), or false if status is not recognized.
func (b BoardConfig) GetColumnForStatus(status string) (string, bool) {
	for _, id := range b.ColumnIDs() {
		if status == id {
			return status, true
		}
	}
	if status == reservedID {
		return reservedID, true
	}
	for _, c := range b.Columns {
		for _, a := range c.StatusAlias {
			if a == status {
				return c.ID, true
			}
		}
	}
	return "", false
}

func (b BoardConfig) IsValidStatus(status string) bool {
	_, ok := b.GetColumnForStatus(status)
	return ok
}

func (b BoardConfig) IsValidType(value string) bool {
	for _, id := range b.TypeIDs() {
		if value == id {
			return true
		}
	}
	for _, t := range b.Types {
		for _, a := range t.TypeAlias {
			if a == value {
				return true
			}
		}
	}
	return false
}

func (b BoardConfig) IsValidPriority(value string) bool {
	for _, id := range b.PriorityIDs() {
		if value == id {
			return true
		}
	}
	for _, p := range b.Priorities {
		for _, a := range p.PriorityAlias {
			if a == value {
				return true
			}
		}
	}
	return false
}

// GetPriorityRank returns the position of priorityID in Priorities (lower
// = lower priority), or -1 if unknown.
func (b BoardConfig) GetPriorityRank(priorityID string) int {
	resolved := b.ResolvePriority(priorityID)
	for i, id := range b.PriorityIDs() {
		if id == resolved {
			return i
		}
	}
	return -1
}

// DefaultBoardConfig returns the 3-column default board used when no config
// file is present or validation fails (§7: config errors degrade, not
// fatal).
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Columns: []Column{
			{ID: "todo", Title: "To Do", StatusAlias: []string{"new"}},
			{ID: "in_progress", Title: "In Progress"},
			{ID: "done", Title: "Done", StatusAlias: []string{"completed", "finished", "complete"}},
		},
		Types: []TypeDef{
			{ID: "feature", Color: "blue"},
			{ID: "bug", Color: "red", TypeAlias: []string{"defect", "issue"}},
			{ID: "task", Color: "white", TypeAlias: []string{"chore"}},
		},
		Priorities: []Priority{
			{ID: "low", Label: "Low", Color: "green", PriorityAlias: []string{"trivial", "minor"}},
			{ID: "medium", Label: "Medium", Color: "yellow"},
			{ID: "high", Label: "High", Color: "orange1", PriorityAlias: []string{"important"}},
			{ID: "critical", Label: "Critical", Color: "red", PriorityAlias: []string{"blocker", "urgent"}},
		},
	}
}

// SyncConfig governs the remote pull path (§6 github.sync).
type SyncConfig struct {
	Enabled  bool     `mapstructure:"enabled" yaml:"enabled"`
	Filters  []string `mapstructure:"filters" yaml:"filters,omitempty"`
	TaskRoot string   `mapstructure:"task_root" yaml:"task_root,omitempty"`
}

// RemoteConfig governs the remote store (§6 "github:" block — named Remote
// here since this spec's backend need not be GitHub specifically).
type RemoteConfig struct {
	ProjectURL    string      `mapstructure:"project_url" yaml:"project_url"`
	DefaultRepo   string      `mapstructure:"default_repo" yaml:"default_repo"`
	BaseURL       string      `mapstructure:"base_url" yaml:"base_url,omitempty"`
	IncludeDrafts bool        `mapstructure:"include_drafts" yaml:"include_drafts"`
	IncludePRs    bool        `mapstructure:"include_prs" yaml:"include_prs"`
	IncludeClosed bool        `mapstructure:"include_closed" yaml:"include_closed"`
	PriorityField string      `mapstructure:"priority_field" yaml:"priority_field,omitempty"`
	Sync          *SyncConfig `mapstructure:"sync" yaml:"sync,omitempty"`
}

// Config is the root configuration loaded from sltasks.yml.
type Config struct {
	Version  int           `mapstructure:"version" yaml:"version"`
	Provider Provider      `mapstructure:"provider" yaml:"provider"`
	TaskRoot string        `mapstructure:"task_root" yaml:"task_root"`
	Remote   *RemoteConfig `mapstructure:"github" yaml:"github,omitempty"`
	Board    BoardConfig   `mapstructure:"board" yaml:"board"`
}

// Default returns the default configuration (file provider, default board).
func Default() *Config {
	return &Config{
		Version:  1,
		Provider: ProviderFile,
		TaskRoot: ".tasks",
		Board:    DefaultBoardConfig(),
	}
}

func validateIdentifier(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if !identifierRe.MatchString(value) {
		return fmt.Errorf("%s %q must match ^[a-z][a-z0-9_]*$", name, value)
	}
	return nil
}

func validateAliases(aliases []string, kind string) error {
	for _, a := range aliases {
		if err := validateIdentifier(a, kind); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every invariant from spec §3/§4.3: identifier shape,
// disjointness of ids/aliases within each of columns/types/priorities,
// the "archived" reservation, column count bounds, and task_root being a
// relative, non-escaping path.
func (c *Config) Validate() error {
	if c.Provider != ProviderFile && c.Provider != ProviderRemote {
		return fmt.Errorf("provider must be %q or %q, got %q", ProviderFile, ProviderRemote, c.Provider)
	}
	if filepath.IsAbs(c.TaskRoot) {
		return fmt.Errorf("task_root must be a relative path")
	}
	if strings.Contains(filepath.Clean(c.TaskRoot), "..") {
		return fmt.Errorf("task_root must not escape the project directory")
	}

	if n := len(c.Board.Columns); n < 2 || n > 6 {
		return fmt.Errorf("board.columns must have between 2 and 6 entries, got %d", n)
	}

	colIDs := map[string]bool{}
	allAliases := map[string]bool{}
	for _, col := range c.Board.Columns {
		if err := validateIdentifier(col.ID, "column id"); err != nil {
			return err
		}
		if col.ID == reservedID {
			return fmt.Errorf("%q is reserved and cannot be used as a column id", reservedID)
		}
		if colIDs[col.ID] {
			return fmt.Errorf("duplicate column id %q", col.ID)
		}
		if allAliases[col.ID] {
			return fmt.Errorf("column id %q conflicts with a column alias", col.ID)
		}
		colIDs[col.ID] = true
		if err := validateAliases(col.StatusAlias, "column alias"); err != nil {
			return err
		}
		for _, a := range col.StatusAlias {
			if a == reservedID {
				return fmt.Errorf("%q is reserved and cannot be used as a column alias", reservedID)
			}
			if colIDs[a] {
				return fmt.Errorf("alias %q conflicts with a column id", a)
			}
			if allAliases[a] {
				return fmt.Errorf("duplicate column alias %q", a)
			}
			allAliases[a] = true
		}
	}

	typeIDs := map[string]bool{}
	typeAliases := map[string]bool{}
	for _, t := range c.Board.Types {
		if err := validateIdentifier(t.ID, "type id"); err != nil {
			return err
		}
		if typeIDs[t.ID] {
			return fmt.Errorf("duplicate type id %q", t.ID)
		}
		if typeAliases[t.ID] {
			return fmt.Errorf("type id %q conflicts with a type alias", t.ID)
		}
		typeIDs[t.ID] = true
		if err := validateAliases(t.TypeAlias, "type alias"); err != nil {
			return err
		}
		for _, a := range t.TypeAlias {
			if typeIDs[a] {
				return fmt.Errorf("type alias %q conflicts with a type id", a)
			}
			if typeAliases[a] {
				return fmt.Errorf("duplicate type alias %q", a)
			}
			typeAliases[a] = true
		}
	}

	prioIDs := map[string]bool{}
	prioAliases := map[string]bool{}
	for _, p := range c.Board.Priorities {
		if err := validateIdentifier(p.ID, "priority id"); err != nil {
			return err
		}
		if prioIDs[p.ID] {
			return fmt.Errorf("duplicate priority id %q", p.ID)
		}
		if prioAliases[p.ID] {
			return fmt.Errorf("priority id %q conflicts with a priority alias", p.ID)
		}
		prioIDs[p.ID] = true
		if err := validateAliases(p.PriorityAlias, "priority alias"); err != nil {
			return err
		}
		for _, a := range p.PriorityAlias {
			if prioIDs[a] {
				return fmt.Errorf("priority alias %q conflicts with a priority id", a)
			}
			if prioAliases[a] {
				return fmt.Errorf("duplicate priority alias %q", a)
			}
			prioAliases[a] = true
		}
	}

	return nil
}

var projectURLRe = regexp.MustCompile(`github\.com/(users|orgs)/([^/]+)/projects/(\d+)`)

// ParseProjectURL extracts the owner type, owner login, and project number
// from a project_url of the form
// "https://github.com/users/OWNER/projects/N" or ".../orgs/OWNER/projects/N"
// (an optional "/views/M" suffix is ignored).
func ParseProjectURL(url string) (ownerType, owner string, number int, err error) {
	m := projectURLRe.FindStringSubmatch(url)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid project URL: %q", url)
	}
	kind := "user"
	if m[1] == "orgs" {
		kind = "org"
	}
	n := 0
	for _, r := range m[3] {
		n = n*10 + int(r-'0')
	}
	return kind, m[2], n, nil
}

// LoadError is the non-fatal config_error flag from spec §7: validation
// failures fall back to defaults rather than aborting, but the caller can
// still observe what went wrong.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config error (%s): %s — using defaults", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the config file (the given path if one is passed, otherwise
// "sltasks.yml" searched for in "." and then in "~/.config/sltasks") via
// viper — the teacher's config
// library — with AutomaticEnv overrides under the SLTASKS_ prefix. On any
// read or validation failure it returns Default() plus a non-nil
// *LoadError describing what happened; it never returns (nil, err).
func Load(path string) (*Config, *LoadError) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SLTASKS")
	v.AutomaticEnv()
	v.SetDefault("version", 1)
	v.SetDefault("provider", string(ProviderFile))
	v.SetDefault("task_root", ".tasks")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sltasks")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sltasks"))
		}
	}

	def := Default()
	if err := v.ReadInConfig(); err != nil {
		if _, isNotFound := err.(viper.ConfigFileNotFoundError); isNotFound {
			return def, nil
		}
		return def, &LoadError{Path: path, Err: err}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return def, &LoadError{Path: v.ConfigFileUsed(), Err: err}
	}
	if len(cfg.Board.Columns) == 0 {
		cfg.Board = DefaultBoardConfig()
	}

	if err := cfg.Validate(); err != nil {
		return def, &LoadError{Path: v.ConfigFileUsed(), Err: err}
	}

	return cfg, nil
}
