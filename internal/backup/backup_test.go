package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mveach/rollo/internal/storage"
)

func writeJSONStore(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "rollo.json")
	store := storage.NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return path
}

func writeSQLiteStore(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "rollo.db")
	store := storage.NewSQLiteStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func TestCreateBackup_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONStore(t, dir)

	manager := NewManager(path)
	backupPath, err := manager.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(backupPath), BackupFilePrefix) {
		t.Errorf("Backup name missing prefix: %s", backupPath)
	}
	if !strings.HasSuffix(backupPath, ".json") {
		t.Errorf("Expected .json backup suffix, got %s", backupPath)
	}

	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read original failed: %v", err)
	}
	copied, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("read backup failed: %v", err)
	}
	if string(original) != string(copied) {
		t.Error("Expected backup to be byte-identical to the store file")
	}
}

func TestCreateBackup_SQLite(t *testing.T) {
	dir := t.TempDir()
	path := writeSQLiteStore(t, dir)

	manager := NewManager(path)
	backupPath, err := manager.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	// The snapshot must itself be a readable database
	if err := manager.verifyBackup(backupPath); err != nil {
		t.Errorf("Backup is not a valid database: %v", err)
	}
}

func TestCreateBackup_MissingStore(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "rollo.db"))

	if _, err := manager.CreateBackup(); err == nil {
		t.Error("Expected error backing up a missing store, got nil")
	}
}

func TestListBackups_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONStore(t, dir)
	manager := NewManager(path)

	if err := os.MkdirAll(manager.GetBackupDir(), 0700); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	names := []string{
		"rollo-20240309-0900.json",
		"rollo-20240311-0900.json",
		"rollo-20240310-0900.json",
		"other-file.json", // ignored: wrong prefix
		"rollo-garbage.json",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(manager.GetBackupDir(), name), []byte("{}"), 0600); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	backups, err := manager.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("Expected 3 recognized backups, got %d", len(backups))
	}

	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Error("Expected backups ordered newest first")
		}
	}
}

func TestListBackups_EmptyDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "rollo.json"))

	backups, err := manager.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Expected no backups, got %d", len(backups))
	}
}

func TestRotateBackups(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONStore(t, dir)
	manager := NewManager(path)

	if err := os.MkdirAll(manager.GetBackupDir(), 0700); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	// Seed more than the retention limit with distinct timestamps
	for i := 0; i < MaxBackups+5; i++ {
		name := fmt.Sprintf("rollo-202403%02d-0900.json", i+1)
		if err := os.WriteFile(filepath.Join(manager.GetBackupDir(), name), []byte("{}"), 0600); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	if err := manager.rotateBackups(); err != nil {
		t.Fatalf("rotateBackups failed: %v", err)
	}

	backups, err := manager.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("Expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
}

func TestRestoreBackup_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONStore(t, dir)
	manager := NewManager(path)

	backupPath, err := manager.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	snapshot, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("read backup failed: %v", err)
	}

	// Change the live store after the backup
	if err := os.WriteFile(path, []byte(`{"version":1,"projects":{},"tasks":{}}`), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := manager.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	restored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read restored failed: %v", err)
	}
	if string(restored) != string(snapshot) {
		t.Error("Expected store to match the backup after restore")
	}
}

func TestRestoreBackup_RejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONStore(t, dir)
	manager := NewManager(path)

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := manager.RestoreBackup(bad); err == nil {
		t.Error("Expected error restoring an invalid backup, got nil")
	}

	if err := manager.RestoreBackup(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error restoring a missing backup, got nil")
	}
}

func TestRestoreBackup_SQLite(t *testing.T) {
	dir := t.TempDir()
	path := writeSQLiteStore(t, dir)
	manager := NewManager(path)

	backupPath, err := manager.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if err := manager.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	// Restored file must be loadable as a store
	store := storage.NewSQLiteStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("restored store failed to load: %v", err)
	}
	defer store.Close()

	projects, err := store.GetAllProjects()
	if err != nil {
		t.Fatalf("GetAllProjects failed: %v", err)
	}
	if len(projects) == 0 {
		t.Error("Expected restored store to retain seeded data")
	}
}
