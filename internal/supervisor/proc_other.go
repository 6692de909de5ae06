//go:build !unix

package supervisor

import "os/exec"

func setProcessGroup(*exec.Cmd) {}

// Without process groups or SIGTERM, stop is always a kill.
func terminate(cmd *exec.Cmd) error { return cmd.Process.Kill() }

func kill(cmd *exec.Cmd) error { return cmd.Process.Kill() }
