package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/darmiel/ctoken/internal/core"
)

var _ core.Auditor = (*FileAuditor)(nil)

// FileAuditor appends audit entries as JSON lines to a file.
type FileAuditor struct {
	mu   sync.Mutex
	path string
	file *os.File
	enc  *json.Encoder
}

func NewFileAuditor(path string) (*FileAuditor, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log file: %w", err)
	}
	return &FileAuditor{
		path: path,
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

func (f *FileAuditor) Path() string {
	return f.path
}

func (f *FileAuditor) Log(entry core.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return fmt.Errorf("audit log %s is closed", f.path)
	}
	if err := f.enc.Encode(entry); err != nil {
		return fmt.Errorf("writing audit log entry: %w", err)
	}
	return nil
}

func (f *FileAuditor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
