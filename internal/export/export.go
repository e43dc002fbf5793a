// Package export writes the aggregate CSV and JSON files for a batch.
// Both forms are rendered from the same in-memory slice in one call, so
// they always describe the same batch with the same field set.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Files writes dir/base.csv (header plus rows) and dir/base.json
// (jsonValue marshaled with indentation).
func Files(dir, base string, header []string, rows [][]string, jsonValue interface{}) error {
	csvPath := filepath.Join(dir, base+".csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", csvPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", csvPath, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", csvPath, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", csvPath, err)
	}

	data, err := json.MarshalIndent(jsonValue, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s.json: %w", base, err)
	}
	jsonPath := filepath.Join(dir, base+".json")
	if err := os.WriteFile(jsonPath, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}
	return nil
}
