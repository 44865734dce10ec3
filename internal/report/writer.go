package report

import (
	"strings"

	"mergefix/internal/config"
	"mergefix/internal/model"
)

// Writer is the unified interface for all repair summary formats
type Writer interface {
	Write(audit *model.RunAudit, cfg *config.Config) error
}

// GetWriters returns a list of Writers based on requested formats
func GetWriters(formats []string) []Writer {
	writers := []Writer{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))
		if seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "word", "docx":
			writers = append(writers, NewWordWriter())
		case "json":
			writers = append(writers, NewJSONWriter())
		}
	}

	return writers
}
