// Package artifact validates and publishes the pipeline's output files.
// Writes are atomic: each artifact is staged in a temporary file and renamed
// into place, so readers never observe a partial file and a failed run leaves
// the previous artifact intact.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"whopaysthem/internal/finance"
)

// Artifact file names under the output directory.
const (
	DistrictsFile = "districts.json"
	RacesFile     = "candidates.json"
	MetadataFile  = "metadata.json"
)

// Metadata describes one pipeline run, written alongside the data artifacts.
type Metadata struct {
	LastUpdated  string   `json:"last_updated"`
	RunID        string   `json:"run_id"`
	ElectionYear int      `json:"election_year"`
	RaceCount    int      `json:"race_count"`
	DistrictKeys int      `json:"district_keys"`
	DataSources  []string `json:"data_sources"`
}

// Writer publishes artifacts into one output directory.
type Writer struct {
	dir string
	log *zap.SugaredLogger
}

// NewWriter creates the output directory if needed and returns a writer.
func NewWriter(dir string, log *zap.SugaredLogger) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact: output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create %s: %w", dir, err)
	}
	return &Writer{dir: dir, log: log}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteDistricts validates and publishes the postal-code lookup artifact.
func (w *Writer) WriteDistricts(mappings map[string]finance.DistrictMapping) error {
	if err := ValidateDistricts(mappings); err != nil {
		return err
	}
	if err := w.writeJSON(DistrictsFile, mappings); err != nil {
		return err
	}
	w.log.Infow("wrote district artifact", "file", DistrictsFile, "postal_codes", len(mappings))
	return nil
}

// WriteRaces validates and publishes the race artifact.
func (w *Writer) WriteRaces(races map[string]finance.Race) error {
	if err := ValidateRaces(races); err != nil {
		return err
	}
	if err := w.writeJSON(RacesFile, races); err != nil {
		return err
	}
	w.log.Infow("wrote race artifact", "file", RacesFile, "races", len(races))
	return nil
}

// WriteMetadata publishes the run metadata, stamping the update time.
func (w *Writer) WriteMetadata(meta Metadata) error {
	if meta.LastUpdated == "" {
		meta.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	}
	if err := w.writeJSON(MetadataFile, meta); err != nil {
		return err
	}
	w.log.Infow("wrote metadata artifact", "run_id", meta.RunID)
	return nil
}

// ReadRaces loads the previously published race artifact, if any. A missing
// file returns an empty map.
func (w *Writer) ReadRaces() (map[string]finance.Race, error) {
	raw, err := os.ReadFile(filepath.Join(w.dir, RacesFile))
	if os.IsNotExist(err) {
		return map[string]finance.Race{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", RacesFile, err)
	}
	var races map[string]finance.Race
	if err := json.Unmarshal(raw, &races); err != nil {
		return nil, fmt.Errorf("artifact: decode %s: %w", RacesFile, err)
	}
	return races, nil
}

// writeJSON marshals v and renames it into place. Map keys marshal in sorted
// order, so identical inputs produce byte-identical artifacts.
func (w *Writer) writeJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("artifact: marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("artifact: stage %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("artifact: stage %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("artifact: stage %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("artifact: publish %s: %w", name, err)
	}
	return nil
}
