package world

import (
	"context"
	"errors"
)

var (
	ErrSnapshotUnavailable = errors.New("snapshot sink not configured")
	ErrSnapshotBusy        = errors.New("snapshot writer busy")
)

// SnapshotReceipt describes a snapshot handed to the writer.
type SnapshotReceipt struct {
	Tick uint64
	// Rituals counts altars saved mid-ritual; they re-match on import.
	Rituals int
}

type adminSnapshotReq struct {
	reply chan<- adminSnapshotReply
}

type adminSnapshotReply struct {
	receipt SnapshotReceipt
	err     error
}

// RequestSnapshot queues a snapshot of the last finished tick. Callable from
// any goroutine; the world loop does the export.
func (w *World) RequestSnapshot(ctx context.Context) (SnapshotReceipt, error) {
	if w == nil || w.admin == nil {
		return SnapshotReceipt{}, ErrSnapshotUnavailable
	}
	reply := make(chan adminSnapshotReply, 1)
	select {
	case w.admin <- adminSnapshotReq{reply: reply}:
	case <-ctx.Done():
		return SnapshotReceipt{}, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.receipt, r.err
	case <-ctx.Done():
		return SnapshotReceipt{}, ctx.Err()
	}
}

// handleAdminSnapshotRequests exports once for every request queued during
// the step that just ran.
func (w *World) handleAdminSnapshotRequests(reqs []adminSnapshotReq) {
	if len(reqs) == 0 {
		return
	}
	var out adminSnapshotReply
	if cur := w.tick.Load(); cur > 0 {
		out.receipt.Tick = cur - 1
	}
	if w.snapshotSink == nil {
		out.err = ErrSnapshotUnavailable
	} else {
		snap := w.ExportSnapshot(out.receipt.Tick)
		for _, a := range snap.Altars {
			if a.Progress > 0 || a.RecipeID != "" {
				out.receipt.Rituals++
			}
		}
		select {
		case w.snapshotSink <- snap:
		default:
			out.err = ErrSnapshotBusy
		}
	}
	for _, r := range reqs {
		select {
		case r.reply <- out:
		default:
		}
	}
}
