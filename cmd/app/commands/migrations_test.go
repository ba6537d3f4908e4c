package commands

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("invalid-driver", func(t *testing.T) {
		err := RunMigrations(logger, "invalid", "postgres://localhost")
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("invalid-connection-string", func(t *testing.T) {
		err := RunMigrations(logger, "postgres", "invalid-connection-string")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})
}

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		dsn    string
		want   string
	}{
		{"postgres unchanged", "postgres", "postgres://u:p@localhost:5432/filevault", "postgres://u:p@localhost:5432/filevault"},
		{"mysql gets scheme", "mysql", "u:p@tcp(localhost:3306)/filevault", "mysql://u:p@tcp(localhost:3306)/filevault"},
		{"mysql keeps scheme", "mysql", "mysql://u:p@tcp(localhost:3306)/filevault", "mysql://u:p@tcp(localhost:3306)/filevault"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := migrateURL(tt.driver, tt.dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
