package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/google/uuid"
)

// Upload subdirectories, partitioned by purpose. Database rows store
// url-shaped relative paths like "letter-type-templates/<name>".
const (
	DirLetterTypeIcons    = "letter-type-icons"
	DirLetterTemplates    = "letter-type-templates"
	DirPrintedLetters     = "printed-letters"
	DirResidentDocuments  = "resident-documents"
	DirRequestAttachments = "request-attachments"
)

// Storage persists uploaded and generated files on the local
// filesystem under a single configurable root.
type Storage struct {
	Root string
}

func NewStorage(root string) *Storage {
	if root == "" {
		root = "./uploads"
	}
	return &Storage{Root: root}
}

// NewStorageFromEnv builds Storage from UPLOAD_PATH.
func NewStorageFromEnv() *Storage {
	return NewStorage(os.Getenv("UPLOAD_PATH"))
}

// EnsureDirs creates the upload root and all purpose subdirectories.
func (s *Storage) EnsureDirs() error {
	for _, dir := range []string{
		DirLetterTypeIcons,
		DirLetterTemplates,
		DirPrintedLetters,
		DirResidentDocuments,
		DirRequestAttachments,
	} {
		if err := os.MkdirAll(filepath.Join(s.Root, dir), os.ModePerm); err != nil {
			return fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return nil
}

// Path resolves a stored relative path to an absolute filesystem path.
// Paths escaping the root are rejected.
func (s *Storage) Path(relPath string) (string, error) {
	cleaned := filepath.Clean(strings.TrimPrefix(relPath, "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", utils.NewValidationError("invalid file path")
	}
	return filepath.Join(s.Root, cleaned), nil
}

// SaveMultipart stores an uploaded file under dir with a unique stored
// name derived from the original extension, returning the relative path.
func (s *Storage) SaveMultipart(file *multipart.FileHeader, dir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.NewString() + ext
	return s.Save(dir, name, src)
}

// Save writes src to dir/name, returning the relative path.
func (s *Storage) Save(dir, name string, src io.Reader) (string, error) {
	relPath := filepath.ToSlash(filepath.Join(dir, name))
	absPath, err := s.Path(relPath)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return relPath, nil
}

// SaveBytes writes data to dir/name, returning the relative path.
func (s *Storage) SaveBytes(dir, name string, data []byte) (string, error) {
	return s.Save(dir, name, strings.NewReader(string(data)))
}

// Read loads a stored file, mapping a missing file to NotFound.
func (s *Storage) Read(relPath string) ([]byte, error) {
	absPath, err := s.Path(relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, utils.NewNotFoundError("File not found")
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Exists reports whether the stored file is present on disk.
func (s *Storage) Exists(relPath string) bool {
	absPath, err := s.Path(relPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(absPath)
	return err == nil
}

// Remove deletes a stored file; missing files are not an error.
func (s *Storage) Remove(relPath string) error {
	absPath, err := s.Path(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
