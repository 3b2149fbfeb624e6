package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreet(t *testing.T) {
	assert.Equal(t, "Hello, Multiplatform Example!", Greet(AppName))
	assert.Equal(t, "Hello, !", Greet(""))
}

func TestAPIResponseOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(APIResponse[string]{Success: false, Error: "boom"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, string(raw))
}
