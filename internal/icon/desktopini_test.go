package icon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetFolderIcon(t *testing.T) {
	dir := t.TempDir()
	setter := NewFolderSetter()

	if err := setter.SetFolderIcon(dir, posterPNG(t, 200, 300)); err != nil {
		t.Fatalf("SetFolderIcon() error = %v", err)
	}

	icoPath := filepath.Join(dir, IconFileName)
	if info, err := os.Stat(icoPath); err != nil || info.Size() == 0 {
		t.Errorf("folder.ico missing or empty: %v", err)
	}

	iniData, err := os.ReadFile(filepath.Join(dir, IniFileName))
	if err != nil {
		t.Fatalf("read desktop.ini: %v", err)
	}
	ini := string(iniData)
	if !strings.Contains(ini, "[.ShellClassInfo]") {
		t.Error("desktop.ini missing ShellClassInfo section")
	}
	if !strings.Contains(ini, `IconResource=.\folder.ico,0`) {
		t.Error("desktop.ini missing IconResource entry")
	}
	if !strings.Contains(ini, "\r\n") {
		t.Error("desktop.ini must use CRLF line endings")
	}

	if !HasFolderIcon(dir) {
		t.Error("HasFolderIcon() = false after SetFolderIcon")
	}
}

func TestSetFolderIconOverwrites(t *testing.T) {
	dir := t.TempDir()
	setter := NewFolderSetter()

	if err := setter.SetFolderIcon(dir, posterPNG(t, 200, 300)); err != nil {
		t.Fatalf("first SetFolderIcon() error = %v", err)
	}
	if err := setter.SetFolderIcon(dir, posterPNG(t, 100, 150)); err != nil {
		t.Fatalf("second SetFolderIcon() error = %v", err)
	}
}

func TestSetFolderIconBadPoster(t *testing.T) {
	dir := t.TempDir()
	setter := NewFolderSetter()

	if err := setter.SetFolderIcon(dir, []byte("garbage")); err == nil {
		t.Fatal("SetFolderIcon() expected error for undecodable poster")
	}
	if HasFolderIcon(dir) {
		t.Error("HasFolderIcon() = true after failed set")
	}
}

func TestRemoveFolderIcon(t *testing.T) {
	dir := t.TempDir()
	setter := NewFolderSetter()

	if err := setter.SetFolderIcon(dir, posterPNG(t, 200, 300)); err != nil {
		t.Fatalf("SetFolderIcon() error = %v", err)
	}
	if err := setter.RemoveFolderIcon(dir); err != nil {
		t.Fatalf("RemoveFolderIcon() error = %v", err)
	}

	if HasFolderIcon(dir) {
		t.Error("HasFolderIcon() = true after removal")
	}
	if _, err := os.Stat(filepath.Join(dir, IniFileName)); !os.IsNotExist(err) {
		t.Error("desktop.ini still present after removal")
	}
}

func TestRemoveFolderIconMissing(t *testing.T) {
	setter := NewFolderSetter()
	if err := setter.RemoveFolderIcon(t.TempDir()); err != nil {
		t.Errorf("RemoveFolderIcon() on clean dir error = %v", err)
	}
}

func TestHasFolderIconRequiresBothFiles(t *testing.T) {
	dir := t.TempDir()
	if HasFolderIcon(dir) {
		t.Error("HasFolderIcon(empty) = true")
	}

	if err := os.WriteFile(filepath.Join(dir, IconFileName), []byte("ico"), 0644); err != nil {
		t.Fatal(err)
	}
	if HasFolderIcon(dir) {
		t.Error("HasFolderIcon() = true with only folder.ico")
	}

	if err := os.WriteFile(filepath.Join(dir, IniFileName), []byte("ini"), 0644); err != nil {
		t.Fatal(err)
	}
	if !HasFolderIcon(dir) {
		t.Error("HasFolderIcon() = false with both files")
	}
}
