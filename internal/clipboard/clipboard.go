// Package clipboard copies formatted citations to the system clipboard through
// the platform's clipboard command.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard command is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// tool is a clipboard command and the arguments that make it read stdin.
type tool struct {
	name string
	args []string
}

// tools lists candidate commands per GOOS in order of preference.
var tools = map[string][]tool{
	"darwin": {{name: "pbcopy"}},
	"linux": {
		{name: "wl-copy"},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	},
	"windows": {{name: "clip"}},
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// find returns the first installed tool for goos.
func find(goos string) (tool, error) {
	for _, t := range tools[goos] {
		if _, err := lookPath(t.name); err == nil {
			return t, nil
		}
	}
	return tool{}, ErrClipboardUnavailable
}

// IsAvailable reports whether a clipboard command is installed.
func IsAvailable() bool {
	_, err := find(runtime.GOOS)
	return err == nil
}

// Copy writes text to the system clipboard.
func Copy(ctx context.Context, text string) error {
	t, err := find(runtime.GOOS)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, t.name, t.args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", t.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
