package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/darmiel/ctoken/internal/core"
)

// ReadFile reads the entries written by a FileAuditor, newest first.
// A limit <= 0 returns all entries.
func ReadFile(path string, filter func(entry core.AuditEntry) bool, limit int) ([]core.AuditEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening audit log file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var entries []core.AuditEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry core.AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("parsing audit log line %d: %w", line, err)
		}
		if filter == nil || filter(entry) {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading audit log file: %w", err)
	}

	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
