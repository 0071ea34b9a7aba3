package audit

import (
	"fmt"

	"github.com/darmiel/ctoken/internal/config"
	"github.com/darmiel/ctoken/internal/core"
)

const (
	NoopType   = "noop"
	MemoryType = "memory"
	FileType   = "file"
)

// New creates the auditor described by cfg.
func New(cfg config.AuditConfig) (core.Auditor, error) {
	switch cfg.Type {
	case NoopType, "":
		return NewNoopAuditor(), nil
	case MemoryType:
		return NewInMemoryAuditor(cfg.MaxEntries), nil
	case FileType:
		if cfg.Path == "" {
			return nil, fmt.Errorf("audit type %q requires a path", cfg.Type)
		}
		return NewFileAuditor(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown audit type %q", cfg.Type)
	}
}
