package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the configuration home directory.
const HomeEnv = "PHENOAGE_HOME"

// DefaultHome returns the configuration home: $PHENOAGE_HOME if set,
// otherwise ~/.phenoage.
func DefaultHome() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".phenoage"), nil
}
