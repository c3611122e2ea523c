// Package credentials provides secure credential loading and management.
// Credentials are stored in ~/.config/sltasks/credentials.yaml with 0600
// permissions.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Credentials represents the top-level credentials structure.
type Credentials struct {
	GitHub *GitHubCredentials `yaml:"github,omitempty"`
}

// GitHubCredentials holds GitHub-specific credentials.
type GitHubCredentials struct {
	Token string `yaml:"token"`
}

var (
	creds     *Credentials
	credsFile string
)

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sltasks"), nil
}

// DefaultCredentialsPath returns the default credentials file path.
func DefaultCredentialsPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials.yaml"), nil
}

// Init initializes the credentials system by loading credentials from file.
// If the credentials file doesn't exist, an empty credentials struct is used.
// This is not an error - credentials may come from environment variables.
func Init() error {
	credPath, err := DefaultCredentialsPath()
	if err != nil {
		return err
	}
	credsFile = credPath

	if _, err := os.Stat(credPath); os.IsNotExist(err) {
		creds = &Credentials{}
		return nil
	}

	data, err := os.ReadFile(credPath)
	if err != nil {
		return fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds = &Credentials{}
	if err := yaml.Unmarshal(data, creds); err != nil {
		return fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return nil
}

// Get returns the current credentials. Returns nil if Init has not been
// called.
func Get() *Credentials {
	return creds
}

// GetGitHubToken returns the GitHub token using the following priority:
// 1. GITHUB_TOKEN environment variable
// 2. credentials.yaml github.token
// Returns an error if no token is found.
func GetGitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if creds != nil && creds.GitHub != nil && creds.GitHub.Token != "" {
		return creds.GitHub.Token, nil
	}
	return "", errors.New("GitHub token not found: set GITHUB_TOKEN environment variable or add token to ~/.config/sltasks/credentials.yaml")
}

// SaveGitHubToken saves a GitHub token to the credentials file. Creates the
// file with 0600 permissions if it doesn't exist.
func SaveGitHubToken(token string) error {
	return saveCredential(func(c *Credentials) {
		if c.GitHub == nil {
			c.GitHub = &GitHubCredentials{}
		}
		c.GitHub.Token = token
	})
}

// saveCredential saves credentials after applying the given update function.
func saveCredential(updateFn func(*Credentials)) error {
	credPath, err := DefaultCredentialsPath()
	if err != nil {
		return err
	}

	currentCreds := &Credentials{}
	if data, err := os.ReadFile(credPath); err == nil {
		yaml.Unmarshal(data, currentCreds)
	}

	updateFn(currentCreds)

	data, err := yaml.Marshal(currentCreds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	dir := filepath.Dir(credPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	if err := os.WriteFile(credPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	creds = currentCreds

	return nil
}

// CredentialsFilePath returns the path to the credentials file being used.
func CredentialsFilePath() string {
	return credsFile
}
