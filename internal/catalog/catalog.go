// backend/internal/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/profinder/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Catalog holds the candidate professionals. Entries are loaded once at
// startup and read-only afterwards; request handlers only ever see copies.
type Catalog struct {
	entries []models.Professional
}

// File is the on-disk catalog format produced by cmd/seed.
type File struct {
	LastUpdated   string                `json:"last_updated"`
	Total         int                   `json:"total"`
	Professionals []models.Professional `json:"professionals"`
}

// New returns a catalog over the given entries. Order is preserved: it is
// the tie-break of last resort during ranking.
func New(entries []models.Professional) *Catalog {
	return &Catalog{entries: entries}
}

// Builtin returns the embedded dataset used when no catalog file is
// configured.
func Builtin() *Catalog {
	return New(builtinProfessionals())
}

// LoadFile reads a seeded catalog JSON file.
func LoadFile(path string, logger *logrus.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if len(file.Professionals) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no professionals", path)
	}

	logger.WithFields(logrus.Fields{
		"path":  path,
		"total": len(file.Professionals),
	}).Info("Catalog loaded from file")

	return New(file.Professionals), nil
}

// Load picks the file catalog when a path is configured, otherwise the
// builtin dataset.
func Load(path string, logger *logrus.Logger) (*Catalog, error) {
	if path == "" {
		logger.Info("No catalog path configured, using builtin dataset")
		return Builtin(), nil
	}
	return LoadFile(path, logger)
}

// All returns a copy of the catalog entries in stable catalog order.
func (c *Catalog) All() []models.Professional {
	out := make([]models.Professional, len(c.entries))
	copy(out, c.entries)
	return out
}

// Size returns the number of catalog entries.
func (c *Catalog) Size() int {
	return len(c.entries)
}
