// ABOUTME: Process handling for platforms without Unix process groups
// ABOUTME: Only the shell itself is killed; WaitDelay bounds the wait on its pipes

//go:build !unix

package dispatch

import "os/exec"

func setProcGroup(*exec.Cmd) {}

func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
