package automation

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"runtime"
)

// AppLauncher is the boundary to the OS application launcher. Fuzzy name
// matching is allowed on both operations.
type AppLauncher interface {
	Launch(ctx context.Context, name string) error
	Terminate(ctx context.Context, name string) error
}

// Opener opens URLs and files with the user's default applications.
type Opener interface {
	OpenURL(ctx context.Context, url string) error
	OpenFile(ctx context.Context, path string) error
}

// MediaKeys presses keyboard-level media keys.
type MediaKeys interface {
	Press(ctx context.Context, key string) error
}

// ExecLauncher launches and terminates applications through OS commands.
type ExecLauncher struct{}

// Launch starts or focuses the named application.
func (ExecLauncher) Launch(ctx context.Context, name string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", "-a", name)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", name)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", name)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	return nil
}

// Terminate kills the named application's process by name.
func (ExecLauncher) Terminate(ctx context.Context, name string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.CommandContext(ctx, "taskkill", "/IM", name+".exe", "/F")
	case "darwin", "linux":
		cmd = exec.CommandContext(ctx, "pkill", "-fi", name)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to terminate %s: %w", name, err)
	}
	return nil
}

// ExecOpener opens URLs and files with the platform's default handler.
type ExecOpener struct{}

func openWithDefault(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	// Detach: the viewer keeps running after we return.
	go func() { _ = cmd.Wait() }()
	return nil
}

// OpenURL opens the URL in the default browser.
func (ExecOpener) OpenURL(ctx context.Context, url string) error {
	log.Printf("Opening URL: %s", url)
	return openWithDefault(ctx, url)
}

// OpenFile opens the file in the default viewer.
func (ExecOpener) OpenFile(ctx context.Context, path string) error {
	log.Printf("Opening file: %s", path)
	return openWithDefault(ctx, path)
}

// ExecMediaKeys presses media keys through OS tooling.
type ExecMediaKeys struct{}

// Press sends one media key press.
func (ExecMediaKeys) Press(ctx context.Context, key string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.CommandContext(ctx, "xdotool", "key", key)
	case "darwin":
		cmd = exec.CommandContext(ctx, "osascript", "-e", appleScriptFor(key))
	default:
		return fmt.Errorf("media keys not supported on %s", runtime.GOOS)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to press %s: %w", key, err)
	}
	return nil
}

func appleScriptFor(key string) string {
	switch key {
	case "XF86AudioMute":
		return "set volume with output muted"
	case "XF86AudioRaiseVolume":
		return "set volume output volume ((output volume of (get volume settings)) + 10)"
	case "XF86AudioLowerVolume":
		return "set volume output volume ((output volume of (get volume settings)) - 10)"
	}
	return ""
}
