package dataset

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// parseYAML reads the native format: top-level regions, pois and paths
// lists whose fields mirror the entity structs.
//
//	pois:
//	  - id: mill
//	    name: Old Mill
//	    position: {x: 10, y: 20}
//	    category: landmark
func parseYAML(r io.Reader) (Dataset, error) {
	var d Dataset
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, nil
		}
		return Dataset{}, fmt.Errorf("yaml: %w", err)
	}
	return d, nil
}

// EncodeYAML writes d in the format parseYAML reads.
func EncodeYAML(w io.Writer, d Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return enc.Close()
}
