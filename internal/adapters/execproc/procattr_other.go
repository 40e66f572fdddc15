//go:build !windows && !unix

package execproc

import (
	"os/exec"

	"github.com/mcdonaldj/arcwrap/internal/ports"
)

func setProcAttr(*exec.Cmd, ports.WindowStyle, bool) {}
