package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/darmiel/ctoken/internal/config"
	"github.com/darmiel/ctoken/internal/core"
)

func TestInMemoryAuditor(t *testing.T) {
	a := NewInMemoryAuditor(0)
	for _, id := range []string{"a", "b", "c"} {
		if err := a.Log(core.AuditEntry{ID: id, Success: id != "b"}); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	recent, _ := a.GetRecent(2)
	if len(recent) != 2 || recent[0].ID != "b" || recent[1].ID != "c" {
		t.Errorf("GetRecent(2) = %+v, want [b c]", recent)
	}

	all, _ := a.GetRecent(100)
	if len(all) != 3 {
		t.Errorf("GetRecent(100) returned %d entries, want 3", len(all))
	}

	failed, _ := a.Find(func(e core.AuditEntry) bool { return !e.Success }, 10)
	if len(failed) != 1 || failed[0].ID != "b" {
		t.Errorf("Find(!success) = %+v, want [b]", failed)
	}
}

func TestFileAuditor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	a, err := NewFileAuditor(path)
	if err != nil {
		t.Fatalf("NewFileAuditor() error = %v", err)
	}
	if err := a.Log(core.AuditEntry{ID: "req-1", Action: "token.issue_by_id", Success: true}); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := a.Log(core.AuditEntry{ID: "req-2"}); err == nil {
		t.Error("Log() after Close() should fail")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []core.AuditEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e core.AuditEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		lines = append(lines, e)
	}
	if len(lines) != 1 || lines[0].ID != "req-1" || !lines[0].Success {
		t.Errorf("unexpected audit file content: %+v", lines)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AuditConfig
		wantErr bool
	}{
		{name: "Default", cfg: config.AuditConfig{}},
		{name: "Memory", cfg: config.AuditConfig{Type: MemoryType}},
		{name: "File", cfg: config.AuditConfig{Type: FileType, Path: filepath.Join(t.TempDir(), "a.log")}},
		{name: "File without path", cfg: config.AuditConfig{Type: FileType}, wantErr: true},
		{name: "Unknown", cfg: config.AuditConfig{Type: "kafka"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if a != nil {
				_ = a.Close()
			}
		})
	}
}

func TestCalculateFingerprint(t *testing.T) {
	a := CalculateFingerprint(LocalFingerprintType, "token-a")
	b := CalculateFingerprint(FirebaseFingerprintType, "token-a")
	if a == "" || a != b {
		t.Errorf("expected equal sha256 fingerprints, got %q and %q", a, b)
	}
	if a == CalculateFingerprint(LocalFingerprintType, "token-b") {
		t.Error("different tokens must have different fingerprints")
	}
	if got := CalculateFingerprint("unknown", "token-a"); got != "(n/a)" {
		t.Errorf("unknown type fingerprint = %q, want (n/a)", got)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	a, err := NewFileAuditor(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []core.AuditEntry{
		{ID: "a", Success: true},
		{ID: "b", Success: false, Error: "invalid api key"},
		{ID: "c", Success: true},
	} {
		if err := a.Log(e); err != nil {
			t.Fatal(err)
		}
	}
	_ = a.Close()

	all, err := ReadFile(path, nil, 0)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var ids []string
	for _, e := range all {
		ids = append(ids, e.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c", "b", "a"}) {
		t.Errorf("ReadFile() ids = %v, want newest first", ids)
	}

	recent, _ := ReadFile(path, nil, 1)
	if len(recent) != 1 || recent[0].ID != "c" {
		t.Errorf("ReadFile(limit=1) = %+v", recent)
	}

	failed, _ := ReadFile(path, func(e core.AuditEntry) bool { return !e.Success }, 0)
	if len(failed) != 1 || failed[0].ID != "b" {
		t.Errorf("ReadFile(!success) = %+v", failed)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.log"), nil, 0); err == nil {
		t.Error("ReadFile() on missing file should fail")
	}
}

func TestInMemoryAuditor_Bounded(t *testing.T) {
	a := NewInMemoryAuditor(2)
	for _, id := range []string{"a", "b", "c", "d"} {
		_ = a.Log(core.AuditEntry{ID: id})
	}
	all, _ := a.GetRecent(-1)
	var ids []string
	for _, e := range all {
		ids = append(ids, e.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c", "d"}) {
		t.Errorf("entries = %v, want [c d]", ids)
	}
}
