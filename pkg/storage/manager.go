package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager writes captured images into one output directory
type Manager struct {
	outputDir string
	written   map[string]int64
	mu        sync.RWMutex
}

// NewManager creates a storage manager for outputDir. When create is false
// the directory must already exist.
func NewManager(outputDir string, create bool) (*Manager, error) {
	if create {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	info, err := os.Stat(outputDir)
	if err != nil {
		return nil, fmt.Errorf("output directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output path %s is not a directory", outputDir)
	}

	return &Manager{
		outputDir: outputDir,
		written:   make(map[string]int64),
	}, nil
}

// Save writes r to <outputDir>/<name>, replacing any existing file, and
// returns the final path.
func (m *Manager) Save(name string, r io.Reader) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	filename := filepath.Join(m.outputDir, name)

	// Temporary file first so readers never see a partial image
	out, err := os.CreateTemp(m.outputDir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	n, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to save image data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.written[name] = n
	m.mu.Unlock()

	return filename, nil
}

// HasWritten reports whether name was written by this manager
func (m *Manager) HasWritten(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.written[name]
	return ok
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetWrittenCount returns the number of distinct files written
func (m *Manager) GetWrittenCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.written)
}

// GetWrittenBytes returns the total size of the files written
func (m *Manager) GetWrittenBytes() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, n := range m.written {
		total += n
	}
	return total
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("file name %q must not contain path separators", name)
	}
	return nil
}
