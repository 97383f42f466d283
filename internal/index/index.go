// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index implements the nearest-neighbor retrieval core: a flat
// exact inner-product index over unit vectors, a SQLite metadata table
// mapping index positions to papers, and the persistence of both as one
// atomic artifact set. Position p in the index and row p in the metadata
// table describe the same paper; that alignment is the package's one
// invariant and is re-checked every time the artifacts are loaded.
package index

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

// Errors returned by index operations.
var (
	ErrIndexNotFound      = errors.New("vector index not found")
	ErrUnsupportedVersion = errors.New("unsupported index format version")
	ErrInvalidK           = errors.New("k must be at least 1")
)

const (
	// indexMagic marks a flat index file ("PSIX").
	indexMagic = uint32(0x50534958)

	// currentFormatVersion is bumped on breaking changes to the file layout.
	currentFormatVersion = uint32(1)
)

// Flat is an exact inner-product index. Vectors are stored densely in
// insertion order; the insertion order assigns positions 0..N-1. Flat is
// append-only while building and read-only while serving; concurrent
// Search calls need no locking.
type Flat struct {
	dim  int
	vecs [][]float32
}

// NewFlat creates an empty index for vectors of the given dimension.
func NewFlat(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d", dim)
	}
	return &Flat{dim: dim}, nil
}

// Add appends a vector at the next position. The caller keeps ownership
// alignment with its own metadata: the p-th Add stores at position p.
func (x *Flat) Add(vec []float32) error {
	if len(vec) != x.dim {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vec), x.dim)
	}
	x.vecs = append(x.vecs, vec)
	return nil
}

// Len returns the number of stored vectors.
func (x *Flat) Len() int {
	return len(x.vecs)
}

// Dimensions returns the vector dimension.
func (x *Flat) Dimensions() int {
	return x.dim
}

// Hit is one search result: a stored position and its inner-product score
// against the query.
type Hit struct {
	Position int
	Score    float64
}

// Search returns the top-k stored vectors by inner product with query,
// best first. Ties keep insertion order. k larger than the index size
// returns every stored vector; k below 1 is an error.
func (x *Flat) Search(query []float32, k int) ([]Hit, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), x.dim)
	}

	hits := make([]Hit, len(x.vecs))
	for p, vec := range x.vecs {
		hits[p] = Hit{Position: p, Score: dot(query, vec)}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Save writes the index to path via a temp file and rename, so a crash
// never leaves a half-written artifact behind.
//
// Layout, all little-endian: magic(u32), version(u32), dim(u32), count(u32),
// then count*dim float32 values in position order.
func (x *Flat) Save(path string) error {
	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}

	if err := x.write(f); err != nil {
		f.Close()
		os.Remove(tempPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing index file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp index file: %w", err)
	}
	return nil
}

func (x *Flat) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range []uint32{indexMagic, currentFormatVersion, uint32(x.dim), uint32(len(x.vecs))} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("writing index header: %w", err)
		}
	}
	for p, vec := range x.vecs {
		if err := binary.Write(bw, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("writing vector %d: %w", p, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

// LoadFlat reads an index written by Save. A missing file yields
// ErrIndexNotFound; an unknown format version yields ErrUnsupportedVersion.
func LoadFlat(path string) (*Flat, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	return readFlat(bufio.NewReader(f))
}

func readFlat(r io.Reader) (*Flat, error) {
	var header [4]uint32
	for i := range header {
		if err := binary.Read(r, binary.LittleEndian, &header[i]); err != nil {
			return nil, fmt.Errorf("reading index header: %w", err)
		}
	}
	magic, version, dim, count := header[0], header[1], header[2], header[3]

	if magic != indexMagic {
		return nil, fmt.Errorf("not a vector index file (magic %#x)", magic)
	}
	if version != currentFormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d (rebuild with 'paper-search index build')",
			ErrUnsupportedVersion, version, currentFormatVersion)
	}
	if dim == 0 || dim > math.MaxInt32 {
		return nil, fmt.Errorf("corrupt index header: dimension %d", dim)
	}

	x := &Flat{dim: int(dim), vecs: make([][]float32, count)}
	for p := range x.vecs {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("reading vector %d: %w", p, err)
		}
		x.vecs[p] = vec
	}
	return x, nil
}
