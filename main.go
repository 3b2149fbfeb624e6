package main

import (
	"context"
	"embed"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"multiplatform-example/backend"
	"multiplatform-example/backend/keybind"
	"multiplatform-example/backend/shared"
)

//go:embed wails.json
var wailsJson string

//go:embed all:frontend/dist
var assets embed.FS

func getVersion(isDev bool) string {
	var versionString = "0.1.0"
	if wailsJson != "" {
		version := gjson.Get(wailsJson, "info.productVersion")
		if !version.Exists() {
			slog.Warn("Version not found in wails.json, using default")
		} else if version.String() == "" {
			slog.Warn("Empty version in wails.json, using default")
		} else {
			versionString = version.String()
			slog.Info("Version", "value", versionString)
		}
	}

	if isDev {
		versionString = versionString + " (dev)"
	}

	return versionString
}

func main() {
	isDev := strings.ToLower(os.Getenv("MULTIPLATFORM_DEV")) == "true"
	if isDev {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))
		slog.Info("Running in development mode")
	}

	version := getVersion(isDev)
	app := backend.NewApp()
	app.SetVersion(version)
	app.SetWindowToggle(func(ctx context.Context) error {
		return keybind.WatchToggle(ctx, keybind.GetHotkey())
	})

	err := wails.Run(&options.App{
		Title:  shared.AppName,
		Width:  420,
		Height: 760,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.Startup,
		OnDomReady:       app.DomReady,
		OnShutdown:       app.Shutdown,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}
