//go:build unix

package execproc

import (
	"os/exec"
	"syscall"

	"github.com/mcdonaldj/arcwrap/internal/ports"
)

// setProcAttr puts detached children into their own process group so a
// terminal interrupt aimed at arcwrap does not reach them. Window styles have
// no meaning here.
func setProcAttr(cmd *exec.Cmd, _ ports.WindowStyle, detached bool) {
	if detached {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}
}
