package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScaffoldProject prepares a directory for botctl. It creates botctl.toml,
// an .env.example listing the environment overrides, and a .gitignore entry
// for the .botctl/ runtime directory. Files that already exist are left
// untouched. Returns the list of created or updated paths.
func ScaffoldProject(dir string) ([]string, error) {
	var created []string

	tomlPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return created, initErr
		}
		created = append(created, tomlPath)
	}

	envPath := filepath.Join(dir, ".env.example")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		if writeErr := os.WriteFile(envPath, []byte(envExample), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", envPath, writeErr)
		}
		created = append(created, envPath)
	}

	// journals and logs are per-machine
	const gitignoreEntry = ".botctl/"
	gitignorePath := filepath.Join(dir, ".gitignore")
	existing, err := os.ReadFile(gitignorePath)
	if os.IsNotExist(err) {
		if writeErr := os.WriteFile(gitignorePath, []byte(gitignoreEntry+"\n"), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	} else if err != nil {
		return created, fmt.Errorf("scaffold: read %s: %w", gitignorePath, err)
	} else if !strings.Contains(string(existing), gitignoreEntry) {
		content := string(existing)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content += "\n"
		}
		content += gitignoreEntry + "\n"
		if writeErr := os.WriteFile(gitignorePath, []byte(content), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	}

	return created, nil
}

var envExample = strings.Join([]string{
	"# Copy to .env; values here override botctl.toml.",
	EnvBackendURL + "=http://127.0.0.1:5000",
	EnvLogLevel + "=info",
	EnvListen + "=127.0.0.1:5000",
	"",
}, "\n")
