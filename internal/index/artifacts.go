// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-search/pkg/types"
)

// Artifact file names inside the index directory.
const (
	IndexFileName    = "corpus.fvecs"
	MetadataFileName = "metadata.db"
	ManifestFileName = "manifest.yaml"
)

// Manifest describes a persisted artifact set. It is written last during a
// build and read first during a load, so a directory with a manifest is
// expected to be complete.
type Manifest struct {
	// FormatVersion guards against loading artifacts written by an
	// incompatible build.
	FormatVersion int `yaml:"format_version"`

	// ModelName is the embedding model the vectors were produced with. The
	// query path must embed with the same model.
	ModelName string `yaml:"model_name"`

	// Dimensions is the vector dimension.
	Dimensions int `yaml:"dimensions"`

	// Count is the number of indexed papers.
	Count int `yaml:"count"`

	// BuiltAt is when the build finished.
	BuiltAt time.Time `yaml:"built_at"`
}

// WriteArtifacts persists a built index and its aligned entries into dir:
// the vector blob, the metadata table, and the manifest. The caller
// guarantees entries[p] is the text behind the vector at position p;
// WriteArtifacts only checks the lengths agree.
func WriteArtifacts(ctx context.Context, dir string, idx *Flat, entries []types.CompositeEntry, modelName string) error {
	if idx.Len() != len(entries) {
		return fmt.Errorf("index has %d vectors but %d metadata entries", idx.Len(), len(entries))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	if err := idx.Save(filepath.Join(dir, IndexFileName)); err != nil {
		return err
	}

	meta, err := OpenMetadata(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return err
	}
	defer meta.Close()
	if err := meta.Replace(ctx, entries); err != nil {
		return err
	}

	manifest := Manifest{
		FormatVersion: int(currentFormatVersion),
		ModelName:     modelName,
		Dimensions:    idx.Dimensions(),
		Count:         idx.Len(),
		BuiltAt:       time.Now().UTC(),
	}
	return manifest.save(dir)
}

func (m Manifest) save(dir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	path := filepath.Join(dir, ManifestFileName)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming manifest: %w", err)
	}
	return nil
}

// LoadManifest reads the manifest from dir.
func LoadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, ErrIndexNotFound
		}
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// LoadArtifacts reads a complete artifact set from dir and validates its
// alignment: manifest, index, and metadata must agree on count and
// dimension. Any mismatch is fatal, since serving with a misaligned
// position mapping would silently return wrong papers.
func LoadArtifacts(ctx context.Context, dir string) (*Flat, []types.CompositeEntry, Manifest, error) {
	manifest, err := LoadManifest(dir)
	if err != nil {
		return nil, nil, Manifest{}, err
	}
	if manifest.FormatVersion != int(currentFormatVersion) {
		return nil, nil, Manifest{}, fmt.Errorf("%w: manifest version %d, want %d",
			ErrUnsupportedVersion, manifest.FormatVersion, currentFormatVersion)
	}

	idx, err := LoadFlat(filepath.Join(dir, IndexFileName))
	if err != nil {
		return nil, nil, Manifest{}, err
	}

	meta, err := OpenMetadata(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return nil, nil, Manifest{}, err
	}
	defer meta.Close()

	entries, err := meta.All(ctx)
	if err != nil {
		return nil, nil, Manifest{}, err
	}

	if idx.Len() != len(entries) {
		return nil, nil, Manifest{}, fmt.Errorf(
			"artifact mismatch: index has %d vectors, metadata has %d entries", idx.Len(), len(entries))
	}
	if idx.Len() != manifest.Count {
		return nil, nil, Manifest{}, fmt.Errorf(
			"artifact mismatch: index has %d vectors, manifest says %d", idx.Len(), manifest.Count)
	}
	if idx.Dimensions() != manifest.Dimensions {
		return nil, nil, Manifest{}, fmt.Errorf(
			"artifact mismatch: index dimension %d, manifest says %d", idx.Dimensions(), manifest.Dimensions)
	}

	return idx, entries, manifest, nil
}
