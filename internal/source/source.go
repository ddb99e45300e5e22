// Package source opens the invoice repository selected by configuration.
package source

import (
	"fmt"

	"github.com/MrJamesThe3rd/invoicer/internal/backend"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
)

// Open returns the repository for cfg.Backend.Source and a function that
// releases it.
func Open(cfg *config.Config) (invoice.Repository, func() error, error) {
	switch cfg.Backend.Source {
	case config.SourceREST:
		return backend.NewClient(cfg.Backend.URL, cfg.Backend.Token), func() error { return nil }, nil

	case config.SourcePostgres, "":
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}

		return invoiceStore.New(db), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown source %q", cfg.Backend.Source)
}
