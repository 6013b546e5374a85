//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
)

type cmdOptions struct {
	args   []string
	stream bool
}

type cmdOption func(*cmdOptions)

func withArgs(args ...string) cmdOption {
	return func(o *cmdOptions) {
		o.args = args
	}
}

// withStream echoes the command's output while it runs, not only on failure.
func withStream() cmdOption {
	return func(o *cmdOptions) {
		o.stream = true
	}
}

// requireTool fails early with a readable message when a build tool is not
// on PATH.
func requireTool(name, hint string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s not found on PATH (%s)", name, hint)
	}
	return nil
}

// executeCmd runs command and returns its combined output.
func executeCmd(command string, options ...cmdOption) (string, error) {
	opts := &cmdOptions{}
	for _, o := range options {
		o(opts)
	}
	fmt.Printf("> %s %s\n", command, strings.Join(opts.args, " "))

	var out bytes.Buffer
	cmd := exec.Command(command, opts.args...)
	stream := mg.Verbose() || opts.stream
	if stream {
		cmd.Stdout = io.MultiWriter(&out, os.Stdout)
		cmd.Stderr = io.MultiWriter(&out, os.Stderr)
	} else {
		cmd.Stdout = &out
		cmd.Stderr = &out
	}

	if err := cmd.Run(); err != nil {
		if !stream {
			fmt.Fprintf(os.Stderr, "%s failed:\n%s\n", command, out.String())
		}
		return "", fmt.Errorf("%s: %w", command, err)
	}
	return out.String(), nil
}
