// Package session guarda el blob de sesión de la terminal en un archivo local.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/warung-pos/internal/application/ports"
)

var _ ports.SessionStore = (*FileStore)(nil)

// FileStore un archivo con permisos 0600; la escritura es atómica (temporal + rename).
type FileStore struct {
	path string
}

// NewFileStore construye el store sobre path (ej: "wk_session").
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load devuelve nil, nil si el archivo no existe.
func (s *FileStore) Load() ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", s.path, err)
	}
	return b, nil
}

// Save reemplaza el contenido del archivo.
func (s *FileStore) Save(blob []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod: %w", err)
	}
	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("escribir sesión: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("reemplazar %s: %w", s.path, err)
	}
	return nil
}

// Clear borra el archivo; no falla si no existía.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("borrar %s: %w", s.path, err)
	}
	return nil
}
