package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sudo-init-do/contactbook/internal/config"
	"github.com/sudo-init-do/contactbook/internal/contact"
	"github.com/sudo-init-do/contactbook/internal/db"
	"github.com/sudo-init-do/contactbook/internal/docstore"
	"github.com/sudo-init-do/contactbook/internal/user"
)

const defaultContactsFile = "data/contacts.json"

// Stores bundles the repositories for the configured driver.
type Stores struct {
	Users    user.Repository
	Contacts contact.Repository
	// Ping reports whether the backing database answers.
	Ping  func(ctx context.Context) error
	Close func()
}

// Open connects the backend named by DB_DRIVER. CONTACTS_FILE moves the
// contacts to the JSON file store whatever the driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	var (
		s   *Stores
		err error
	)
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		s, err = openPostgres(ctx, cfg)
	case config.DriverMongo:
		s, err = openMongo(ctx, cfg)
	case config.DriverMemory:
		s, err = openMemory(cfg)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.DB.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.DB.ContactsFile != "" {
		fileRepo, err := contact.NewFileRepository(cfg.DB.ContactsFile)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Contacts = fileRepo
	}
	log.Info().Str("driver", cfg.DB.Driver).Str("contacts_file", cfg.DB.ContactsFile).Msg("storage ready")
	return s, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Stores, error) {
	pool, err := db.New(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Stores{
		Users:    user.NewPGRepository(pool),
		Contacts: contact.NewPGRepository(pool),
		Ping:     pool.Ping,
		Close:    pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Stores, error) {
	client, database, err := docstore.Connect(ctx, cfg.DB.MongoURI, cfg.DB.MongoDatabase)
	if err != nil {
		return nil, err
	}
	users := user.NewMongoRepository(database)
	if err := users.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return &Stores{
		Users:    users,
		Contacts: contact.NewMongoRepository(database),
		Ping:     func(ctx context.Context) error { return docstore.Ping(ctx, client) },
		Close:    func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

// openMemory keeps users in memory and contacts in the JSON file store.
func openMemory(cfg *config.Config) (*Stores, error) {
	path := cfg.DB.ContactsFile
	if path == "" {
		path = filepath.FromSlash(defaultContactsFile)
	}
	contacts, err := contact.NewFileRepository(path)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Users:    user.NewMemoryRepository(),
		Contacts: contacts,
		Ping:     func(context.Context) error { return nil },
		Close:    func() {},
	}, nil
}
