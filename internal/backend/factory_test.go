package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, "x.db", cfg.SQLiteDBPath)

	_, err = FromAppConfig(&config.Config{DataBackend: "postgres"})
	assert.Error(t, err)

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file ok", Config{Type: FileBackend, DataFile: "months.json"}, false},
		{"file without path", Config{Type: FileBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"memory", Config{Type: MemoryBackend}, false},
		{"unknown", Config{Type: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"file", "sqlite", "memory"}, GetBackendTypeStrings())
}

func TestCreateBackendRoundTrips(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFactory(log.Discard())

	for _, cfg := range []Config{
		{Type: FileBackend, DataFile: filepath.Join(dir, "months.json")},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "fintrack.db")},
		{Type: MemoryBackend},
	} {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			res, err := f.CreateBackend(ctx, cfg)
			require.NoError(t, err)
			defer res.Close()

			data, err := res.Persister.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, data)

			require.NoError(t, res.Persister.Save(ctx, []byte(`[]`)))
			data, err = res.Persister.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(data))
		})
	}
}

func TestSQLiteBackendUsesStorageKey(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "fintrack.db"),
	})
	require.NoError(t, err)
	defer res.Close()

	kp, ok := res.Persister.(storage.KeyPersister)
	require.True(t, ok)
	assert.Equal(t, "financial-tracker-months", kp.Key)
}

func TestCreatePublisherDisabledWithoutURL(t *testing.T) {
	assert.Nil(t, NewFactory(nil).CreatePublisher(context.Background(), &config.Config{}))
}

func TestCreateMirror(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	m, err := f.CreateMirror(ctx, &config.Config{MirrorBackend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, m)

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err = f.CreateMirror(ctx, &config.Config{MirrorBackend: "sheets", GoogleSpreadsheetID: "abc"})
	assert.ErrorContains(t, err, "missing service account credentials")

	_, err = f.CreateMirror(ctx, &config.Config{MirrorBackend: "excel"})
	assert.Error(t, err)
}
