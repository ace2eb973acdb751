package omnibox

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, url string) error

// Open calls f.
func (f NavigatorFunc) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Browser returns a Navigator that hands the destination to the desktop's
// default URL handler. The handler process is not waited for.
func Browser() Navigator {
	return NavigatorFunc(func(_ context.Context, url string) error {
		name, args := browserCommand(runtime.GOOS, url)
		cmd := exec.Command(name, args...)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start %s: %w", name, err)
		}
		go cmd.Wait() //nolint:errcheck // the handler outlives the request
		return nil
	})
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// Clipboard returns a Navigator that copies the destination to the system clipboard.
func Clipboard() Navigator {
	return NavigatorFunc(func(_ context.Context, url string) error {
		if err := clipboard.WriteAll(url); err != nil {
			return fmt.Errorf("write clipboard: %w", err)
		}
		return nil
	})
}

// Writer returns a Navigator that prints the destination on its own line.
func Writer(w io.Writer) Navigator {
	return NavigatorFunc(func(_ context.Context, url string) error {
		_, err := fmt.Fprintln(w, url)
		return err
	})
}
