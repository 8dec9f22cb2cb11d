// Package dataset generates and persists the synthetic workload shared by
// both protocol runs.
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
)

// DefaultSeed keeps A2A and MCP runs on the exact same data.
const DefaultSeed int64 = 42

var (
	// ErrInvalidParams is returned when generation bounds are inconsistent.
	ErrInvalidParams = errors.New("invalid dataset parameters")
	// ErrEmptyDataset is returned when a loaded dataset has no usable items.
	ErrEmptyDataset = errors.New("empty dataset")
)

// Dataset is an ordered sequence of non-empty integer arrays.
type Dataset [][]int

// Params controls generation. Bounds are inclusive.
type Params struct {
	Cases     int   `yaml:"cases"`
	MinLength int   `yaml:"min_length"`
	MaxLength int   `yaml:"max_length"`
	MinValue  int   `yaml:"min_value"`
	MaxValue  int   `yaml:"max_value"`
	Seed      int64 `yaml:"seed"`
}

// DefaultParams returns the parameters both experiments are run with.
func DefaultParams() Params {
	return Params{
		Cases:     30,
		MinLength: 5,
		MaxLength: 20,
		MinValue:  1,
		MaxValue:  500,
		Seed:      DefaultSeed,
	}
}

// Validate reports every inconsistent bound at once.
func (p Params) Validate() error {
	var errs []error
	if p.Cases < 1 {
		errs = append(errs, fmt.Errorf("cases must be >= 1, got %d", p.Cases))
	}
	if p.MinLength < 1 {
		errs = append(errs, fmt.Errorf("min length must be >= 1, got %d", p.MinLength))
	}
	if p.MinLength > p.MaxLength {
		errs = append(errs, fmt.Errorf("min length %d > max length %d", p.MinLength, p.MaxLength))
	}
	if p.MinValue > p.MaxValue {
		errs = append(errs, fmt.Errorf("min value %d > max value %d", p.MinValue, p.MaxValue))
	} else if uint64(p.MaxValue)-uint64(p.MinValue) >= math.MaxInt64 {
		errs = append(errs, fmt.Errorf("value range %d..%d is too wide", p.MinValue, p.MaxValue))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
	}
	return nil
}

// Generate draws p.Cases arrays from a source seeded with p.Seed.
// The same Params always yield the same Dataset.
func Generate(p Params) (Dataset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(p.Seed))
	ds := make(Dataset, 0, p.Cases)
	for i := 0; i < p.Cases; i++ {
		length := between(rng, p.MinLength, p.MaxLength)
		numbers := make([]int, length)
		for j := range numbers {
			numbers[j] = between(rng, p.MinValue, p.MaxValue)
		}
		ds = append(ds, numbers)
	}
	return ds, nil
}

func between(rng *rand.Rand, lo, hi int) int {
	return lo + int(rng.Int63n(int64(hi)-int64(lo)+1))
}

// Validate rejects empty datasets and empty items.
func (d Dataset) Validate() error {
	if len(d) == 0 {
		return ErrEmptyDataset
	}
	for i, numbers := range d {
		if len(numbers) == 0 {
			return fmt.Errorf("%w: item %d has no values", ErrEmptyDataset, i+1)
		}
	}
	return nil
}

// Digest returns a hex SHA-256 of the dataset's canonical JSON encoding.
// Two runs with equal digests saw byte-identical inputs.
func (d Dataset) Digest() string {
	data, _ := json.Marshal(d) // [][]int always marshals
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Save writes the dataset as indented JSON, creating parent directories.
func Save(path string, d Dataset) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating dataset directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	return nil
}

// Load reads a dataset written by Save and validates it.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("dataset must be a JSON array of integer arrays: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return d, nil
}
