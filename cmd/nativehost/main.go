// Command nativehost is the native messaging host registered in the
// browser's host manifest. It runs headless: no window, no hotkey.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"multiplatform-example/backend"
	"multiplatform-example/backend/extension"
	"multiplatform-example/backend/settings"
)

func main() {
	// the browser owns stdout
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if !extension.IsNativeMessagingLaunch(os.Args[1:]) {
		fmt.Fprintln(os.Stderr, "nativehost is started by the browser; pass --native-messaging to run it by hand")
		os.Exit(2)
	}

	configDir, err := settings.GetConfigDir()
	if err != nil {
		slog.Error("Error getting config directory", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := backend.RunNativeMessagingHost(ctx, configDir, os.Stdin, os.Stdout, nil); err != nil {
		slog.Error("Native messaging host stopped", "error", err)
		os.Exit(1)
	}
}
