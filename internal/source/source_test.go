package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/backend"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/source"
)

func TestOpen(t *testing.T) {
	type testCase struct {
		name    string
		setup   func(cfg *config.Config)
		wantErr string
		verify  func(t *testing.T, cfg *config.Config)
	}

	tests := []testCase{
		{
			name: "REST",
			setup: func(cfg *config.Config) {
				cfg.Backend.Source = config.SourceREST
				cfg.Backend.URL = "http://upstream.test/api"
			},
		},
		{
			name: "Postgres Unreachable",
			setup: func(cfg *config.Config) {
				cfg.Backend.Source = config.SourcePostgres
				cfg.DB.Host = "127.0.0.1"
				cfg.DB.Port = 1
			},
			wantErr: "connecting to database",
		},
		{
			name: "Unknown",
			setup: func(cfg *config.Config) {
				cfg.Backend.Source = "mysql"
			},
			wantErr: `unknown source "mysql"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Config
			tt.setup(&cfg)

			repo, closeRepo, err := source.Open(&cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, repo)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, &backend.Client{}, repo)
			assert.NoError(t, closeRepo())
		})
	}
}
