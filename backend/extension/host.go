// Package extension implements the native messaging host the browser
// extension talks to. Navigation reports land in the shared history inbox;
// the UI process picks them up from there.
package extension

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	"multiplatform-example/backend/bridge"
)

const (
	typeHistoryEntry = "history_entry"
	typePing         = "ping"

	untitled = "Untitled"
)

// Inbox stores reported history entries for the UI process
type Inbox interface {
	Add(entry bridge.HistoryEntry) (int64, error)
}

type historyPayload struct {
	URL       *string `json:"url" validate:"required"`
	Title     *string `json:"title" validate:"required"`
	Timestamp *int64  `json:"timestamp" validate:"required,gte=0"`
}

// Host answers native messages from the extension
type Host struct {
	inbox    Inbox
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewHost creates a host writing into inbox
func NewHost(inbox Inbox, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		inbox:    inbox,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// IsNativeMessagingLaunch reports whether the process was started by a
// browser as a native messaging host. Chrome passes the caller's origin
// first; Firefox passes the host manifest path and then the extension id.
func IsNativeMessagingLaunch(args []string) bool {
	if len(args) == 0 {
		return false
	}
	if args[0] == "--native-messaging" {
		return true
	}
	for _, arg := range args[:min(len(args), 2)] {
		for _, scheme := range []string{"chrome-extension://", "moz-extension://", "safari-web-extension://"} {
			if strings.HasPrefix(arg, scheme) {
				return true
			}
		}
	}
	return len(args) >= 2 && strings.HasSuffix(strings.ToLower(args[0]), ".json") && args[1] != ""
}

// Serve answers messages from r on w until EOF or ctx is done
func (h *Host) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		msg, err := ReadMessage(r)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		resp, err := json.Marshal(h.Handle(msg))
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		if err := WriteMessage(w, resp); err != nil {
			return err
		}
	}
}

// Handle answers a single message
func (h *Host) Handle(msg []byte) map[string]any {
	h.logger.Info("Received message from extension", "size", len(msg))

	msgType := gjson.GetBytes(msg, "type")
	if msgType.Type != gjson.String {
		return errorResponse("No message type provided")
	}

	switch msgType.String() {
	case typeHistoryEntry:
		return h.handleHistoryEntry(gjson.GetBytes(msg, "payload"))
	case typePing:
		return map[string]any{"status": "ok", "timestamp": h.now().UnixMilli()}
	default:
		return map[string]any{"status": "unknown_message_type"}
	}
}

func (h *Host) handleHistoryEntry(raw gjson.Result) map[string]any {
	if !raw.IsObject() {
		return errorResponse("Invalid payload")
	}

	var p historyPayload
	if err := json.Unmarshal([]byte(raw.Raw), &p); err != nil {
		return errorResponse("Invalid payload")
	}
	if err := h.validate.Struct(p); err != nil {
		h.logger.Debug("Rejected history payload", "error", err)
		return errorResponse("Invalid payload")
	}

	entry := bridge.HistoryEntry{
		URL:       *p.URL,
		Title:     *p.Title,
		Timestamp: uint64(*p.Timestamp),
	}
	if entry.Title == "" {
		entry.Title = untitled
	}

	if _, err := h.inbox.Add(entry); err != nil {
		h.logger.Error("Failed to store history entry", "url", entry.URL, "error", err)
		return errorResponse("Could not access shared container")
	}

	h.logger.Info("Saved history entry", "url", entry.URL)
	return map[string]any{"status": "ok"}
}

func errorResponse(message string) map[string]any {
	return map[string]any{"status": "error", "message": message}
}
