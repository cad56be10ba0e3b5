package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/contactbook/internal/config"
	"github.com/sudo-init-do/contactbook/internal/contact"
	"github.com/sudo-init-do/contactbook/internal/user"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = config.DriverMemory
	cfg.DB.ContactsFile = filepath.Join(t.TempDir(), "contacts.json")

	s, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &user.MemoryRepository{}, s.Users)
	assert.IsType(t, &contact.FileRepository{}, s.Contacts)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = "sqlite"

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "unsupported driver")
}
