// Package fixtures loads the dataset used to seed the store.
package fixtures

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"pto-advisor/config"
	"pto-advisor/models"
	"pto-advisor/parser"
)

//go:embed seed.yaml
var seed []byte

// Seed returns the embedded demo dataset.
func Seed() (models.Dataset, error) {
	return parser.Parse(bytes.NewReader(seed))
}

// Load reads the configured fixtures file, or the embedded seed when no path
// is set. When a requests CSV is configured its rows replace the requests of
// the fixtures.
func Load(cfg config.DataConfig) (models.Dataset, error) {
	var (
		ds  models.Dataset
		err error
	)
	if cfg.FixturesPath == "" {
		ds, err = Seed()
	} else {
		ds, err = parseFile(cfg.FixturesPath, parser.Parse)
	}
	if err != nil {
		return models.Dataset{}, err
	}

	if cfg.RequestsCSVPath != "" {
		requests, err := parseFile(cfg.RequestsCSVPath, parser.ParseRequestsCSV)
		if err != nil {
			return models.Dataset{}, err
		}
		ds.Requests = requests
		parser.AttachEmployeeNames(&ds)
	}
	return ds, nil
}

func parseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	file, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()
	return parse(file)
}
