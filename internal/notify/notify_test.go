package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "0 new internship opportunities found!", FormatMessage(0))
	assert.Equal(t, "1 new internship opportunities found!", FormatMessage(1))
	assert.Equal(t, "27 new internship opportunities found!", FormatMessage(27))
}

func TestEventPayloadShape(t *testing.T) {
	payload, err := json.Marshal(Event{Count: 4, Message: FormatMessage(4)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":4,"message":"4 new internship opportunities found!"}`, string(payload))
}
