package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

var errNoClipboard = errors.New("no clipboard available")

// systemClipboard writes through the platform clipboard utilities
type systemClipboard struct{}

func (systemClipboard) WriteText(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return errNoClipboard
	}
	return clipboard.WriteAll(text)
}

type noClipboard struct{}

func (noClipboard) WriteText(context.Context, string) error { return errNoClipboard }

// systemNavigator hands links to the desktop's URL handler
type systemNavigator struct{}

func (systemNavigator) Navigate(ctx context.Context, url string) error { return openURL(ctx, url) }

func (systemNavigator) OpenNew(ctx context.Context, url string) error { return openURL(ctx, url) }

func openURL(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go cmd.Wait()
	return nil
}

type printNavigator struct {
	w io.Writer
}

func (p printNavigator) Navigate(_ context.Context, url string) error {
	_, err := fmt.Fprintf(p.w, "open %s\n", url)
	return err
}

func (p printNavigator) OpenNew(_ context.Context, url string) error {
	_, err := fmt.Fprintf(p.w, "open (new) %s\n", url)
	return err
}
