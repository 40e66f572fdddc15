//go:build windows

package execproc

import (
	"os/exec"
	"syscall"

	"github.com/mcdonaldj/arcwrap/internal/ports"
	"golang.org/x/sys/windows"
)

// setProcAttr maps the window style onto the Windows process attributes.
// SysProcAttr can only hide a window, so WindowMinimized starts with the default show state.
func setProcAttr(cmd *exec.Cmd, style ports.WindowStyle, detached bool) {
	attr := &syscall.SysProcAttr{
		HideWindow: style == ports.WindowHidden,
	}
	if detached {
		attr.CreationFlags = windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS
	}
	cmd.SysProcAttr = attr
}
