// Package nvpmodel shells out to the vendor nvpmodel utility to query and
// change the active power mode.
package nvpmodel

import (
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// ModeUnknown is reported when the active mode cannot be determined. It is
// a displayable value, not an error: the hardware state is owned by the
// vendor utility and may simply be unreadable right now.
const ModeUnknown = "???"

// currentModeMarker introduces the line whose successor holds the active
// mode ID in `nvpmodel -q --verbose` output. Matched case-insensitively.
const currentModeMarker = "current mode"

// Runner executes external commands. The default implementation uses
// os/exec; tests substitute a fake.
type Runner interface {
	Output(name string, args ...string) ([]byte, error)
	CombinedOutput(name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

func (execRunner) CombinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Client wraps the nvpmodel binary. Queries run unprivileged; mode changes
// go through sudo unless the process is already root.
type Client struct {
	nvpmodel string
	sudo     string
	runner   Runner
}

// New returns a Client invoking the given nvpmodel binary (a bare name is
// resolved via PATH by os/exec).
func New(nvpmodelPath string) *Client {
	c := &Client{
		nvpmodel: nvpmodelPath,
		runner:   execRunner{},
	}
	if os.Geteuid() != 0 {
		c.sudo = "sudo"
	}
	return c
}

// CurrentMode returns the active mode ID, or ModeUnknown when the query
// command fails or its output lacks the current-mode marker. Safe to call
// on every render.
func (c *Client) CurrentMode() string {
	out, err := c.runner.Output(c.nvpmodel, "-q", "--verbose")
	if err != nil {
		logrus.WithError(err).Debug("nvpmodel query failed")
		return ModeUnknown
	}

	lines := strings.Split(string(out), "\n")
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), currentModeMarker) {
			continue
		}
		if i+1 >= len(lines) {
			break
		}
		if id := strings.TrimSpace(lines[i+1]); id != "" {
			return id
		}
		break
	}

	return ModeUnknown
}

// ChangeResult is the outcome of a mode change attempt. Output holds the
// combined stdout/stderr of the external command, verbatim.
type ChangeResult struct {
	ID     string
	Output string
	Err    error
}

// OK reports whether the change command exited zero.
func (r *ChangeResult) OK() bool {
	return r.Err == nil
}

// SetMode asks nvpmodel to switch to the given mode ID. The result always
// carries the captured output; a declined or timed-out sudo prompt is
// indistinguishable from any other failure.
func (c *Client) SetMode(id string) *ChangeResult {
	name := c.nvpmodel
	args := []string{"-m", id}
	if c.sudo != "" {
		name = c.sudo
		args = append([]string{c.nvpmodel}, args...)
	}

	logrus.WithFields(logrus.Fields{
		"command": name,
		"args":    args,
	}).Debug("changing power mode")

	out, err := c.runner.CombinedOutput(name, args...)
	return &ChangeResult{
		ID:     id,
		Output: string(out),
		Err:    err,
	}
}
