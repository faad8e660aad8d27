package files

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxDocumentSize is the upload limit for appointment documents.
const MaxDocumentSize = 10 << 20 // 10 MB

var (
	ErrTooLarge    = errors.New("document exceeds maximum size of 10 MB")
	ErrNotPDF      = errors.New("document must be a PDF")
	ErrInvalidName = errors.New("invalid document name")
)

// Store saves appointment documents on disk. Files are renamed to a UUID so
// uploads can never collide or traverse outside the store directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save reads the document from r and writes it to disk, returning the stored
// file name. It rejects anything that is not a PDF and anything over
// MaxDocumentSize.
func (s *Store) Save(r io.Reader) (string, error) {
	// One extra byte past the limit makes oversize detectable.
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return "", ErrTooLarge
	}
	if !isPDF(data) {
		return "", ErrNotPDF
	}

	name := uuid.NewString() + ".pdf"
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return name, nil
}

// Open returns the stored document for reading. The name must be one
// previously returned by Save.
func (s *Store) Open(name string) (*os.File, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("open document: %w", err)
	}
	return f, nil
}

// Remove deletes a stored document. Missing files are not an error.
func (s *Store) Remove(name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove document: %w", err)
	}
	return nil
}

// isPDF sniffs the content type and additionally requires the PDF magic
// header, since DetectContentType alone is easy to fool.
func isPDF(data []byte) bool {
	if !strings.HasPrefix(string(data), "%PDF-") {
		return false
	}
	return http.DetectContentType(data) == "application/pdf"
}

// validName accepts only the UUID-dot-pdf names Save produces.
func validName(name string) bool {
	if !strings.HasSuffix(name, ".pdf") {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(name, ".pdf"))
	return err == nil
}
