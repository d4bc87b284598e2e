package ocr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// keep-alive connections from the OCR.space client tests
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func TestRun_ProcessesQueueAndStops(t *testing.T) {
	f := newFixture(t)
	f.engine.text = "Soup - water, salt"

	upload, err := f.svc.Submit(context.Background(), formFile(t, "menu.png", "png"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.svc.Run(ctx, 10*time.Millisecond) }()

	assert.Eventually(t, func() bool {
		got, err := f.svc.Status(context.Background(), upload.ID)
		return err == nil && got.Status == StatusParsed
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
