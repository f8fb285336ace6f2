package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectBatch(t *testing.T, d *Debouncer) []FileEvent {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced batch")
		return nil
	}
}

func TestDebouncer_EmitsAfterQuietWindow(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, 10)
	defer d.Stop()

	d.Add(FileEvent{Path: "/a/hh001.tif", Op: OpCreate})

	batch := collectBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, "/a/hh001.tif", batch[0].Path)
	assert.Equal(t, OpCreate, batch[0].Op)
}

func TestDebouncer_CoalescesCreateModify(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, 10)
	defer d.Stop()

	// A file being copied in arrives as CREATE followed by WRITE churn.
	d.Add(FileEvent{Path: "/a/hh001.tif", Op: OpCreate})
	d.Add(FileEvent{Path: "/a/hh001.tif", Op: OpModify})
	d.Add(FileEvent{Path: "/a/hh001.tif", Op: OpModify})

	batch := collectBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, OpCreate, batch[0].Op)
}

func TestDebouncer_CreateDeleteCancelsOut(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, 10)
	defer d.Stop()

	d.Add(FileEvent{Path: "/a/tmp.tif", Op: OpCreate})
	d.Add(FileEvent{Path: "/a/tmp.tif", Op: OpDelete})
	d.Add(FileEvent{Path: "/a/keep.tif", Op: OpCreate})

	batch := collectBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, "/a/keep.tif", batch[0].Path)
}

func TestDebouncer_DeleteCreateBecomesModify(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, 10)
	defer d.Stop()

	d.Add(FileEvent{Path: "/a/hh001.tif", Op: OpDelete})
	d.Add(FileEvent{Path: "/a/hh001.tif", Op: OpCreate})

	batch := collectBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, OpModify, batch[0].Op)
}

func TestDebouncer_SeparatePathsStayDistinct(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, 10)
	defer d.Stop()

	d.Add(FileEvent{Path: "/a/one.tif", Op: OpCreate})
	d.Add(FileEvent{Path: "/a/two.tif", Op: OpCreate})

	batch := collectBatch(t, d)
	assert.Len(t, batch, 2)
}

func TestDebouncer_StopIsIdempotent(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, 10)
	d.Stop()
	assert.NotPanics(t, d.Stop)

	// Adds after stop are dropped, not panics on a closed channel.
	assert.NotPanics(t, func() {
		d.Add(FileEvent{Path: "/a/late.tif", Op: OpCreate})
	})
}
