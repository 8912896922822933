package directory

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"watizat/pkg/types"
)

//go:embed data/locations.json
var embeddedLocations []byte

// FileReader fetches a named object, e.g. from S3.
type FileReader interface {
	ReadFile(ctx context.Context, key string) ([]byte, error)
}

// Parse decodes a JSON array of help locations into a Directory.
func Parse(data []byte) (*Directory, error) {
	var locations []types.HelpLocation
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode help locations: %w", err)
	}

	return New(locations)
}

// Embedded returns the directory built from the dataset shipped in the binary.
func Embedded() (*Directory, error) {
	return Parse(embeddedLocations)
}

func LoadFile(path string) (*Directory, error) {
	_, d, err := ReadFile(path)
	return d, err
}

// ReadFile loads a dataset file and also returns its raw bytes, so a
// validated copy can be republished as is.
func ReadFile(path string) ([]byte, *Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read help locations file %s: %w", path, err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}

	return data, d, nil
}

func LoadRemote(ctx context.Context, reader FileReader, key string) (*Directory, error) {
	data, err := reader.ReadFile(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch help locations %s: %w", key, err)
	}

	return Parse(data)
}
