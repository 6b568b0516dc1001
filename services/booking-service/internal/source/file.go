package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/model"
	"gopkg.in/yaml.v3"
)

// FileSource serves availability from a local JSON or YAML file. The file is
// re-read on every Fetch so edits show up without a restart.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(ctx context.Context) ([]model.AvailabilityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read availability file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return decodeYAMLRecords(body), nil
	default:
		return decodeRecords(body), nil
	}
}

func decodeYAMLRecords(body []byte) []model.AvailabilityRecord {
	var doc yaml.Node
	if err := yaml.Unmarshal(body, &doc); err != nil || len(doc.Content) == 0 {
		return []model.AvailabilityRecord{}
	}
	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return []model.AvailabilityRecord{}
	}
	records := make([]model.AvailabilityRecord, 0, len(root.Content))
	for _, item := range root.Content {
		var rec model.AvailabilityRecord
		_ = item.Decode(&rec)
		records = append(records, rec)
	}
	return records
}
