package extension

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize bounds an incoming message, matching the browser's limit
// for messages sent to a native host
const MaxMessageSize = 4 << 20

// ErrFrameTooLarge is returned for frames above MaxMessageSize
var ErrFrameTooLarge = errors.New("native message too large")

// ReadMessage reads one length-prefixed message. io.EOF means the browser
// closed the pipe between messages.
func ReadMessage(r io.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read length prefix: %w", err)
	}
	if size > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	msg := make([]byte, size)
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, fmt.Errorf("read message body: %w", err)
	}
	return msg, nil
}

// WriteMessage writes msg with its length prefix
func WriteMessage(w io.Writer, msg []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(msg))); err != nil {
		return fmt.Errorf("write length prefix: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message body: %w", err)
	}
	return nil
}
