package docxir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumina-note/docxir/internal/logging"
	"github.com/lumina-note/docxir/pkg/docxir/session"
)

// Storage is the file access docxir needs from its host.
type Storage interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
}

// FileStorage reads and writes the local file system. Writes go through a
// temporary file in the target directory and a rename, so readers never
// see a partial archive.
type FileStorage struct {
	// Perm is the mode of created files; 0 means 0644.
	Perm os.FileMode
}

func (FileStorage) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (fs FileStorage) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	perm := fs.Perm
	if perm == 0 {
		perm = 0o644
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
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
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// OpenFile reads path through store and opens it.
func OpenFile(ctx context.Context, store Storage, path string, opts ...Option) (*session.Session, error) {
	data, err := store.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Open(path, data, opts...)
}

// ExportDocx saves the session and writes the archive to targetPath. The
// session's dirty flag is left as it was: exporting a copy is not saving.
func ExportDocx(ctx context.Context, s *session.Session, targetPath string, store Storage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Save(s)
	if err != nil {
		return err
	}
	if err := store.WriteFile(ctx, targetPath, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", targetPath, err)
	}
	logging.WithFields(logging.Fields{
		"session": s.ID,
		"target":  targetPath,
		"bytes":   len(data),
	}).Info("exported document")
	return nil
}
