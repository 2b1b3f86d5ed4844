package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/equipment-loan-tracker/internal/models"
)

// dirSnapshotRepo keeps one JSON file per archived snapshot
type dirSnapshotRepo struct {
	dir string
}

// NewDirSnapshotRepo creates a directory-backed snapshot repository
func NewDirSnapshotRepo(dir string) (SnapshotRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &dirSnapshotRepo{dir: dir}, nil
}

// Save writes the snapshot atomically through a temporary file
func (r *dirSnapshotRepo) Save(ctx context.Context, snapshot *models.ArchivedSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", snapshot.TakenAt.UTC().Format("20060102T150405.000000000Z"), snapshot.ID)
	tmp, err := os.CreateTemp(r.dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(r.dir, name))
}

// List reads snapshot headers, newest first
func (r *dirSnapshotRepo) List(ctx context.Context, limit int) ([]models.ArchivedSnapshot, error) {
	names, err := r.names()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	snapshots := make([]models.ArchivedSnapshot, 0, len(names))
	for _, name := range names {
		s, err := r.read(name)
		if err != nil {
			return nil, err
		}
		s.Document = nil
		snapshots = append(snapshots, *s)
	}
	return snapshots, nil
}

// Latest reads the newest snapshot, nil when the archive is empty
func (r *dirSnapshotRepo) Latest(ctx context.Context) (*models.ArchivedSnapshot, error) {
	names, err := r.names()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	return r.read(names[0])
}

// names lists snapshot files newest first; file names sort by timestamp
func (r *dirSnapshotRepo) names() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (r *dirSnapshotRepo) read(name string) (*models.ArchivedSnapshot, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return nil, err
	}
	var s models.ArchivedSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return &s, nil
}
