package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/profinder/backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_HasEntries(t *testing.T) {
	c := Builtin()
	assert.Greater(t, c.Size(), 0)

	for _, pro := range c.All() {
		assert.NotEmpty(t, pro.ID)
		assert.NotEmpty(t, pro.Name)
		assert.NotEmpty(t, pro.Trade)
		assert.NotEmpty(t, pro.Location)
	}
}

func TestAll_ReturnsACopy(t *testing.T) {
	c := Builtin()

	first := c.All()
	first[0].Name = "mutated"

	assert.NotEqual(t, "mutated", c.All()[0].Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	file := File{
		LastUpdated: "2026-08-01",
		Total:       1,
		Professionals: []models.Professional{
			{ID: "pro-900", Name: "Test Plumbing", Trade: "plumber", Location: "Austin, TX", Rating: 4.5},
		},
	}
	data, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := LoadFile(path, logrus.New())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Size())
	assert.Equal(t, "Test Plumbing", c.All()[0].Name)
}

func TestLoadFile_Errors(t *testing.T) {
	logger := logrus.New()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), logger)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o644))
	_, err = LoadFile(bad, logger)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"professionals":[]}`), 0o644))
	_, err = LoadFile(empty, logger)
	assert.Error(t, err)
}

func TestLoad_FallsBackToBuiltin(t *testing.T) {
	c, err := Load("", logrus.New())
	require.NoError(t, err)
	assert.Equal(t, Builtin().Size(), c.Size())
}
