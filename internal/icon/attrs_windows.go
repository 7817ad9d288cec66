//go:build windows

package icon

import "os/exec"

// Attribute handling shells out to attrib, which survives across Windows
// versions without cgo or syscall juggling.

func setIniAttributes(path string) error {
	return exec.Command("attrib", "+s", "+h", "+a", path).Run()
}

func setFolderAttributes(path string) error {
	return exec.Command("attrib", "+s", "+r", path).Run()
}

func clearAttributes(path string) error {
	return exec.Command("attrib", "-s", "-h", "-r", "-a", path).Run()
}

func clearFolderAttributes(path string) error {
	return exec.Command("attrib", "-s", "-r", path).Run()
}
