//go:build !windows

package icon

// Off Windows the ini and ico files are still written so shares browsed
// from Windows clients pick up the icon, but there are no attributes to
// manage.

func setIniAttributes(string) error { return nil }

func setFolderAttributes(string) error { return nil }

func clearAttributes(string) error { return nil }

func clearFolderAttributes(string) error { return nil }
