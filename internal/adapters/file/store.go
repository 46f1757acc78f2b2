package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/stylepanel/pkg/domain"
)

// ErrInvalidPanelID is returned for IDs that are empty or would escape the base directory.
var ErrInvalidPanelID = errors.New("invalid panel id")

// Store implements ports.PanelStore using the local filesystem.
// Each panel state is one JSON file in BasePath.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".stylepanel/panels".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".stylepanel", "panels")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(panelID string) (string, error) {
	if panelID == "" || panelID != filepath.Base(panelID) || strings.HasPrefix(panelID, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPanelID, panelID)
	}
	return filepath.Join(s.BasePath, panelID+".json"), nil
}

// Save writes the state atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, panelID string, state *domain.PanelState) error {
	destPath, err := s.path(panelID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure panel directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal panel state: %w", err)
	}

	// Same directory as the destination, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+panelID+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows can't rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing panel file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads the state of a panel.
func (s *Store) Load(ctx context.Context, panelID string) (*domain.PanelState, error) {
	filePath, err := s.path(panelID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrPanelNotFound
		}
		return nil, fmt.Errorf("failed to read panel file: %w", err)
	}

	var state domain.PanelState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal panel state: %w", err)
	}
	if state.Groups == nil {
		state.Groups = make(map[string]bool)
	}
	return &state, nil
}

// Delete removes the panel file. Deleting an unknown panel is not an error.
func (s *Store) Delete(ctx context.Context, panelID string) error {
	filePath, err := s.path(panelID)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete panel file: %w", err)
	}
	return nil
}

// List returns the IDs of all stored panels.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list panels: %w", err)
	}

	panels := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		panels = append(panels, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(panels)
	return panels, nil
}
