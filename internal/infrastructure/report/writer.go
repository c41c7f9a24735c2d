package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"formwalker/internal/domain/entity"
)

// Save persists a run snapshot as pretty-printed JSON under dir and returns
// the file path. The snapshot round-trips through Load.
func Save(result *entity.ExtractionResult, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run_%s.json", result.RunID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func Load(path string) (*entity.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var result entity.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &result, nil
}

// SaveScreenshot writes a failure screenshot next to the run reports.
func SaveScreenshot(shot *entity.Screenshot, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.%s", name, shot.Format))
	if err := os.WriteFile(path, shot.Data, 0644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}
