package utils

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// includes logger
func ReadTargetList(filePath string) ([]string, error) {
	log := GetLogger("config")
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %v", err)
	}
	var list TargetList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("error parsing YAML file: %v", err)
	}
	paths := make([]string, 0, len(list.Targets))
	for i, entry := range list.Targets {
		path := strings.TrimSpace(entry.Path)
		if path == "" {
			return nil, fmt.Errorf("missing path for entry %d", i+1)
		}
		paths = append(paths, path)
	}
	log.Debug().Int("count", len(paths)).Msg("Targets loaded from YAML")
	return paths, nil
}

// DedupeTargets keeps the first occurrence of every path and returns the
// dropped duplicates separately.
func DedupeTargets(paths []string) (unique, dropped []string) {
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			dropped = append(dropped, p)
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	return unique, dropped
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func FormatSpeed(bytes int64, elapsed float64) string {
	if elapsed <= 0 || bytes <= 0 {
		return "0 B/s"
	}
	bps := float64(bytes) / elapsed
	return FormatBytes(uint64(bps)) + "/s"
}
