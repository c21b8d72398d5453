package snapshot

import (
	"os"
	"path/filepath"
	"sync"
)

// DefaultFilename is the first save target in the user's home directory.
const DefaultFilename = "image_001.png"

// Target is the current save path. It is safe for concurrent use.
type Target struct {
	mu   sync.Mutex
	path string
}

// NewTarget creates a target; an empty path selects DefaultPath.
func NewTarget(path string) *Target {
	if path == "" {
		path = DefaultPath()
	}
	return &Target{path: path}
}

// DefaultPath returns ~/image_001.png, or image_001.png in the working
// directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFilename
	}
	return filepath.Join(home, DefaultFilename)
}

// Path returns the current target.
func (t *Target) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Set replaces the target.
func (t *Target) Set(path string) {
	t.mu.Lock()
	t.path = path
	t.mu.Unlock()
}

// Advance moves the target to the next filename and returns it.
func (t *Target) Advance() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.path = NextName(t.path)
	return t.path
}
