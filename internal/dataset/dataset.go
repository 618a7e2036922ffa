package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"finqa/internal/logging"
	"finqa/internal/models"
)

// Load reads a dataset file. It must hold a non-empty JSON array. When
// maxItems is positive only the first maxItems entries are kept. Entries with
// structural issues are logged and skipped.
func Load(path string, maxItems int) ([]models.Item, error) {
	logger := logging.New("dataset")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	root, err := parseArray(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	entries := root.Array()
	logger.Info("loaded dataset", "path", path, "items", len(entries))
	if maxItems > 0 && maxItems < len(entries) {
		logger.Info("limiting dataset", "from", len(entries), "to", maxItems)
		entries = entries[:maxItems]
	}

	items := make([]models.Item, 0, len(entries))
	for i, entry := range entries {
		if issues := ItemIssues(i, entry); len(issues) > 0 {
			for _, issue := range issues {
				logger.Warn("skipping item", "issue", issue.String())
			}
			continue
		}

		var item models.Item
		if err := json.Unmarshal([]byte(entry.Raw), &item); err != nil {
			logger.Warn("skipping item", "item", i, "error", err)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// Save writes items as indented JSON, creating parent directories as needed.
func Save(path string, items []models.Item) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if items == nil {
		items = []models.Item{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logging.New("dataset").Info("saved dataset", "path", path, "items", len(items))
	return nil
}

// LimitedOutputPath inserts "_first_<n>" before the extension of path.
func LimitedOutputPath(path string, n int) string {
	if n <= 0 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_first_%d%s", path[:len(path)-len(ext)], n, ext)
}
