package direction

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed directions.yaml
var datasetYAML []byte

type entry struct {
	Dim  int      `yaml:"dim"`
	Poly uint32   `yaml:"poly"`
	M    []uint32 `yaml:"m"`
}

type dataset struct {
	Version string             `yaml:"version"`
	Tables  map[string][]entry `yaml:"tables"`
}

var (
	loadOnce sync.Once
	loaded   *dataset
	loadErr  error
)

// reference returns the embedded free direction integer dataset. It is
// parsed on first use and never modified afterwards.
func reference() (*dataset, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parseDataset(datasetYAML)
	})
	return loaded, loadErr
}

// DatasetVersion returns the version tag of the embedded reference data.
func DatasetVersion() (string, error) {
	ds, err := reference()
	if err != nil {
		return "", err
	}
	return ds.Version, nil
}

func parseDataset(raw []byte) (*dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var ds dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("error when parsing direction dataset: %w", err)
	}
	if err := validateDataset(&ds); err != nil {
		return nil, fmt.Errorf("error when validating direction dataset: %w", err)
	}
	return &ds, nil
}

func validateDataset(ds *dataset) error {
	if ds.Version == "" {
		return errors.New("missing version")
	}
	for name, rows := range ds.Tables {
		for i, row := range rows {
			if row.Dim != i+2 {
				return fmt.Errorf("%s: row %d has dim %d, want %d", name, i, row.Dim, i+2)
			}
			deg := Degree(row.Poly)
			if deg < 1 || row.Poly&1 == 0 {
				return fmt.Errorf("%s: dim %d: bad polynomial %d", name, row.Dim, row.Poly)
			}
			if len(row.M) != deg {
				return fmt.Errorf("%s: dim %d: %d initializers for degree %d", name, row.Dim, len(row.M), deg)
			}
			for k, m := range row.M {
				if m&1 == 0 || m >= uint32(1)<<(k+1) {
					return fmt.Errorf("%s: dim %d: initializer m%d=%d must be odd and below 2^%d",
						name, row.Dim, k+1, m, k+1)
				}
			}
		}
	}
	return nil
}

func (ds *dataset) table(v Variant) ([]entry, error) {
	rows, ok := ds.Tables[v.String()]
	if !ok {
		return nil, fmt.Errorf("no reference table for variant %s", v)
	}
	return rows, nil
}
