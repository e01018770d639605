package submit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/daxgen/internal/ctxlog"
	"github.com/vk/daxgen/internal/testutil"
)

func TestSend_InvalidConfig(t *testing.T) {
	doc := Document{Name: "w", Format: "xml", Content: []byte("<adag/>")}

	tests := []struct {
		name   string
		url    string
		errMsg string
	}{
		{name: "empty", url: "", errMsg: "must not be empty"},
		{name: "unparsable", url: "http://[::1", errMsg: "failed to parse URL"},
		{name: "no host", url: "/socket.io", errMsg: "must include a scheme and host"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Send(ctxlog.Discard(context.Background()), Config{URL: tc.url}, doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestSend_Unreachable(t *testing.T) {
	ctx, logs := testutil.LogContext()
	doc := Document{Name: "w", Format: "xml", Content: []byte("<adag/>")}

	start := time.Now()
	_, err := Send(ctx, Config{URL: "http://127.0.0.1:1/socket.io/", Timeout: 500 * time.Millisecond}, doc)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, logs.String(), "Submission started.")
}

func TestSend_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(ctxlog.Discard(context.Background()))
	cancel()

	doc := Document{Name: "w", Format: "xml", Content: []byte("<adag/>")}
	_, err := Send(ctx, Config{URL: "http://127.0.0.1:1/socket.io/", Timeout: time.Minute}, doc)
	require.Error(t, err)
}

func TestDocumentPayload(t *testing.T) {
	doc := Document{Name: "blackdiamond", Format: "yaml", Content: []byte("name: blackdiamond\n")}
	assert.Equal(t, map[string]any{
		"name":     "blackdiamond",
		"format":   "yaml",
		"document": "name: blackdiamond\n",
	}, doc.payload())
}
