package shared

import "fmt"

const (
	AppName    = "Multiplatform Example"
	APIVersion = "v1"
)

// APIResponse is the envelope every companion API endpoint returns
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Greet returns the greeting shown by every client
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s!", name)
}
