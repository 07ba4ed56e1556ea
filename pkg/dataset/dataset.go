// Package dataset defines the population.json document consumed by the
// static site and reads and writes it.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Sternrassler/ksa-population/pkg/population"
)

// Dataset is the complete data file.
type Dataset struct {
	National  population.NationalSummary `json:"national"`
	Provinces *population.Table          `json:"provinces"`
	AgeGroups *population.Table          `json:"age_groups"`
	Metadata  Metadata                   `json:"metadata"`
}

// Metadata records where the numbers come from.
type Metadata struct {
	Source       string `json:"source"`
	API          string `json:"api"`
	NationalYear int    `json:"national_year"`
	DetailedYear int    `json:"detailed_year"`
	Note         string `json:"note"`
}

// DefaultMetadata returns the GASTAT provenance for the given years.
func DefaultMetadata(api string, nationalYear, detailedYear int) Metadata {
	return Metadata{
		Source:       "General Authority for Statistics (GASTAT)",
		API:          api,
		NationalYear: nationalYear,
		DetailedYear: detailedYear,
		Note: fmt.Sprintf("National totals are from %d. Province and age breakdowns are from the most recent detailed census (%d).",
			nationalYear, detailedYear),
	}
}

// Encode writes d as indented JSON. Non-ASCII text is written as is.
func Encode(w io.Writer, d *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// Decode reads a dataset written by Encode.
func Decode(r io.Reader) (*Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if d.Provinces == nil {
		d.Provinces = population.NewTable()
	}
	if d.AgeGroups == nil {
		d.AgeGroups = population.NewTable()
	}
	return &d, nil
}

// Write stores d at path. The file is written next to path with a .tmp
// suffix and renamed into place, so readers never see a partial file.
func Write(path string, d *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := writeFile(tmpPath, d); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp to final: %w", err)
	}
	return nil
}

func writeFile(path string, d *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, d); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	return f.Close()
}

// Read loads the dataset stored at path.
func Read(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
