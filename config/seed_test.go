package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSeed(t *testing.T) {
	path := writeSeed(t, `
actors:
  - id: "00000000-0000-0000-0000-000000000001"
    name: "Plataforma"
    role: "ADMIN"
  - id: "00000000-0000-0000-0000-000000000002"
    name: "Distribuidora Norte"
    role: "DISTRIBUIDOR"
  - id: "00000000-0000-0000-0000-000000000003"
    name: "Tienda 12"
    role: "VENDEDOR"
    parent: "00000000-0000-0000-0000-000000000002"
    active: false
`)

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed.Actors, 3)

	assert.Equal(t, "ADMIN", seed.Actors[0].Role)
	assert.True(t, seed.Actors[0].IsActive())
	assert.Empty(t, seed.Actors[1].Parent)
	assert.Equal(t, "00000000-0000-0000-0000-000000000002", seed.Actors[2].Parent)
	assert.False(t, seed.Actors[2].IsActive())
}

func TestLoadSeed_MissingRole(t *testing.T) {
	path := writeSeed(t, `
actors:
  - id: "00000000-0000-0000-0000-000000000001"
`)

	_, err := LoadSeed(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id and role are required")
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
