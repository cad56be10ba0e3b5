package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FileRepository stores every contact in one JSON array file. The mutex
// covers each read-modify-write cycle within this process.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository makes sure path exists, seeding it with an empty array.
func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("contacts dir: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("contacts file: %w", err)
		}
	} else if err != nil {
		return nil, err
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) List(_ context.Context) ([]Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *FileRepository) Get(_ context.Context, id string) (*Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contacts, err := r.read()
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if contacts[i].ID == id {
			c := contacts[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *FileRepository) Create(_ context.Context, c *Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contacts, err := r.read()
	if err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	contacts = append(contacts, *c)
	return r.write(contacts)
}

func (r *FileRepository) Update(_ context.Context, id string, p Patch) (*Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contacts, err := r.read()
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if contacts[i].ID != id {
			continue
		}
		p.Apply(&contacts[i])
		if err := r.write(contacts); err != nil {
			return nil, err
		}
		c := contacts[i]
		return &c, nil
	}
	return nil, ErrNotFound
}

func (r *FileRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contacts, err := r.read()
	if err != nil {
		return err
	}
	kept := contacts[:0]
	for _, c := range contacts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(contacts) {
		return ErrNotFound
	}
	return r.write(kept)
}

func (r *FileRepository) read() ([]Contact, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read contacts: %w", err)
	}
	contacts := []Contact{}
	if len(data) == 0 {
		return contacts, nil
	}
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return contacts, nil
}

// write replaces the file through a temp file and rename.
func (r *FileRepository) write(contacts []Contact) error {
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".contacts-*.json")
	if err != nil {
		return fmt.Errorf("write contacts: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write contacts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

var _ Repository = (*FileRepository)(nil)
