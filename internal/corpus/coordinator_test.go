package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/screener/internal/extract"
)

// stubExtractor echoes the blob back as text. Blobs starting with "slow:"
// sleep first so completion order diverges from submission order; blobs
// starting with "fail:" error out.
type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, blob []byte) (string, error) {
	s := string(blob)
	switch {
	case strings.HasPrefix(s, "slow:"):
		time.Sleep(20 * time.Millisecond)
		return strings.TrimPrefix(s, "slow:"), nil
	case strings.HasPrefix(s, "fail:"):
		return "", &extract.Error{Cause: fmt.Errorf("unreadable: %s", strings.TrimPrefix(s, "fail:"))}
	default:
		return s, nil
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractBatch_OrderIndependentOfCompletion(t *testing.T) {
	// Early slots are slow, late slots are instant. Identifiers must still
	// follow submission position.
	blobs := [][]byte{
		[]byte("slow:first resume"),
		[]byte("slow:second resume"),
		[]byte("third resume"),
		[]byte("fourth resume"),
	}

	c := NewCoordinator(stubExtractor{}, testLogger(), WithWorkers(4))
	cp, failures := c.ExtractBatch(context.Background(), blobs)

	require.Empty(t, failures)
	require.Equal(t, 4, cp.Len())
	assert.Equal(t, []string{"R-001", "R-002", "R-003", "R-004"}, cp.IDs())

	text, ok := cp.Text("R-001")
	require.True(t, ok)
	assert.Equal(t, "first resume", text)
	text, ok = cp.Text("R-004")
	require.True(t, ok)
	assert.Equal(t, "fourth resume", text)
}

func TestExtractBatch_Deterministic(t *testing.T) {
	blobs := make([][]byte, 8)
	for i := range blobs {
		prefix := ""
		if i%3 == 0 {
			prefix = "slow:"
		}
		blobs[i] = []byte(fmt.Sprintf("%sresume %d", prefix, i))
	}

	c := NewCoordinator(stubExtractor{}, testLogger(), WithWorkers(3))
	first, _ := c.ExtractBatch(context.Background(), blobs)
	second, _ := c.ExtractBatch(context.Background(), blobs)

	assert.Equal(t, first.Records(), second.Records())
}

func TestExtractBatch_FailureKeepsSlot(t *testing.T) {
	blobs := [][]byte{
		[]byte("good one"),
		[]byte("fail:corrupt file"),
		[]byte("good two"),
	}

	c := NewCoordinator(stubExtractor{}, testLogger(), WithWorkers(2))
	cp, failures := c.ExtractBatch(context.Background(), blobs)

	// The failed slot keeps its identifier; neighbors are unaffected.
	require.Equal(t, 3, cp.Len())
	assert.Equal(t, []string{"R-001", "R-002", "R-003"}, cp.IDs())

	require.Len(t, failures, 1)
	assert.Equal(t, "R-002", failures[0].ID)
	assert.Error(t, failures[0].Err)

	text, ok := cp.Text("R-002")
	require.True(t, ok)
	assert.Empty(t, text)
	assert.True(t, cp.Records()[1].Failed)

	text, ok = cp.Text("R-003")
	require.True(t, ok)
	assert.Equal(t, "good two", text)
}

func TestExtractBatch_AllFail(t *testing.T) {
	blobs := [][]byte{[]byte("fail:a"), []byte("fail:b")}

	c := NewCoordinator(stubExtractor{}, testLogger())
	cp, failures := c.ExtractBatch(context.Background(), blobs)

	assert.Equal(t, []string{"R-001", "R-002"}, cp.IDs())
	assert.Len(t, failures, 2)
}

func TestExtractBatch_Empty(t *testing.T) {
	c := NewCoordinator(stubExtractor{}, testLogger())
	cp, failures := c.ExtractBatch(context.Background(), nil)

	assert.Zero(t, cp.Len())
	assert.Empty(t, failures)
}

func TestExtractBatch_SingleWorker(t *testing.T) {
	blobs := [][]byte{[]byte("a"), []byte("b"), []byte("c")}

	c := NewCoordinator(stubExtractor{}, testLogger(), WithWorkers(1))
	cp, failures := c.ExtractBatch(context.Background(), blobs)

	require.Empty(t, failures)
	assert.Equal(t, []string{"R-001", "R-002", "R-003"}, cp.IDs())
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "R-001", FormatID(1))
	assert.Equal(t, "R-042", FormatID(42))
	assert.Equal(t, "R-1000", FormatID(1000))
}
