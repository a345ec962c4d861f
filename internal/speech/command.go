package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultCommand is the synthesizer binary looked up on PATH.
const DefaultCommand = "espeak-ng"

// Command runs an espeak-compatible binary that writes WAV audio to stdout.
type Command struct {
	name     string
	path     string
	lookPath func(string) (string, error)
}

// NewCommand resolves name on PATH. An empty name uses DefaultCommand.
func NewCommand(name string) *Command {
	if name == "" {
		name = DefaultCommand
	}
	c := &Command{name: name, lookPath: exec.LookPath}
	c.path, _ = c.lookPath(name)
	return c
}

func (c *Command) Available() bool { return c.path != "" }

func (c *Command) ContentType() string { return "audio/wav" }

func (c *Command) Synthesize(ctx context.Context, text, tag string, w io.Writer) error {
	if !c.Available() {
		return fmt.Errorf("%s: %w", c.name, ErrUnavailable)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("nothing to speak")
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.path, commandArgs(text, tag)...)
	cmd.Stdout = w
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", c.name, err, msg)
		}
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}

func commandArgs(text, tag string) []string {
	args := []string{"--stdout"}
	if v := voiceFor(tag); v != "" {
		args = append(args, "-v", v)
	}
	return append(args, "--", text)
}
