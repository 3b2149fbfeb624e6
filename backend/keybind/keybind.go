package keybind

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"golang.design/x/hotkey"
)

// GetHotkey returns the window toggle shortcut, Ctrl+Shift+H
func GetHotkey() *hotkey.Hotkey {
	return hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeyH)
}

// WatchToggle registers hk and toggles the window on every keydown until
// ctx is done
func WatchToggle(ctx context.Context, hk *hotkey.Hotkey) error {
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register hotkey: %w", err)
	}

	go func() {
		defer hk.Unregister()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-hk.Keydown():
				if !ok {
					return
				}
				if runtime.WindowIsNormal(ctx) {
					runtime.WindowHide(ctx)
				} else {
					ShowWindow(ctx)
				}
			}
		}
	}()

	slog.Debug("Hotkey registered", "hotkey", hk.String())
	return nil
}

// ShowWindow brings the window to the front, centered
func ShowWindow(ctx context.Context) {
	runtime.WindowShow(ctx)
	runtime.WindowCenter(ctx)
}
