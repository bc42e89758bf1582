// Package action executes the side effects suggested by intent
// classification: generated files, opened URLs, and search queries. All
// effects run locally on the user's machine.
package action

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener launches URLs and files with the platform's default handlers.
// Tests inject a recording implementation instead of touching the OS.
type Opener interface {
	// OpenURL opens a URL in the default browser.
	OpenURL(ctx context.Context, url string) error
	// OpenPath opens a file with its default application.
	OpenPath(ctx context.Context, path string) error
	// RevealPath shows a file in the platform file manager.
	RevealPath(ctx context.Context, path string) error
}

// SystemOpener launches targets with the platform open command.
type SystemOpener struct{}

// NewSystemOpener returns an Opener backed by the host OS.
func NewSystemOpener() *SystemOpener {
	return &SystemOpener{}
}

func (o *SystemOpener) OpenURL(ctx context.Context, url string) error {
	return o.open(ctx, url)
}

func (o *SystemOpener) OpenPath(ctx context.Context, path string) error {
	return o.open(ctx, path)
}

func (o *SystemOpener) RevealPath(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.CommandContext(ctx, "explorer", "/select,", path)
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", "-R", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("revealing %s: %w", path, err)
	}
	return nil
}

func (o *SystemOpener) open(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", target)
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("opening %s: %w", target, err)
	}
	return nil
}
