package icon

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// IconFileName is the icon file written next to desktop.ini.
	IconFileName = "folder.ico"

	// IniFileName is the Windows folder customization file.
	IniFileName = "desktop.ini"
)

// desktopIniContent points the folder icon at the generated folder.ico.
const desktopIniContent = "[.ShellClassInfo]\r\n" +
	"IconResource=.\\folder.ico,0\r\n" +
	"[ViewState]\r\n" +
	"Mode=\r\n" +
	"Vid=\r\n" +
	"FolderType=Pictures\r\n"

// FolderSetter applies poster icons to directories.
type FolderSetter struct{}

// NewFolderSetter creates a folder icon setter.
func NewFolderSetter() *FolderSetter {
	return &FolderSetter{}
}

// SetFolderIcon converts the poster to folder.ico, writes desktop.ini, and
// applies the file attributes Windows needs to honor the customization.
func (s *FolderSetter) SetFolderIcon(folderPath string, posterData []byte) error {
	folderPath, err := filepath.Abs(folderPath)
	if err != nil {
		return err
	}

	icoData, err := EncodeICO(posterData)
	if err != nil {
		return err
	}

	icoPath := filepath.Join(folderPath, IconFileName)
	if err := os.WriteFile(icoPath, icoData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", IconFileName, err)
	}

	iniPath := filepath.Join(folderPath, IniFileName)

	// An existing desktop.ini is usually system+hidden+readonly, which
	// blocks the rewrite. Clear attributes first.
	if _, err := os.Stat(iniPath); err == nil {
		if err := clearAttributes(iniPath); err != nil {
			return fmt.Errorf("failed to clear %s attributes: %w", IniFileName, err)
		}
	}

	if err := os.WriteFile(iniPath, []byte(desktopIniContent), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", IniFileName, err)
	}

	if err := setIniAttributes(iniPath); err != nil {
		return fmt.Errorf("failed to set %s attributes: %w", IniFileName, err)
	}
	if err := setFolderAttributes(folderPath); err != nil {
		return fmt.Errorf("failed to set folder attributes: %w", err)
	}

	return nil
}

// RemoveFolderIcon undoes SetFolderIcon: attributes are cleared and the
// generated files removed. Missing files are not an error.
func (s *FolderSetter) RemoveFolderIcon(folderPath string) error {
	folderPath, err := filepath.Abs(folderPath)
	if err != nil {
		return err
	}

	iniPath := filepath.Join(folderPath, IniFileName)
	if _, err := os.Stat(iniPath); err == nil {
		if err := clearAttributes(iniPath); err != nil {
			return err
		}
		if err := os.Remove(iniPath); err != nil {
			return err
		}
	}

	icoPath := filepath.Join(folderPath, IconFileName)
	if err := os.Remove(icoPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	return clearFolderAttributes(folderPath)
}

// ClearPathAttributes strips system, hidden, and read-only attributes from a
// path so it can be removed. No-op on non-Windows platforms.
func ClearPathAttributes(path string) error {
	return clearAttributes(path)
}

// HasFolderIcon reports whether the directory already carries a generated
// folder icon.
func HasFolderIcon(folderPath string) bool {
	if _, err := os.Stat(filepath.Join(folderPath, IconFileName)); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(folderPath, IniFileName))
	return err == nil
}
