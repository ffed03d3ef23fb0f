package scrollfx

import "time"

// FrameID identifies a pending frame request.
type FrameID uint64

// FrameScheduler is the platform frame primitive: callbacks requested now
// run once on the next frame.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

type queuedFrame struct {
	id FrameID
	fn func(now time.Time)
}

// FrameQueue is a FrameScheduler flushed explicitly once per host frame
// (Site.Update calls Flush). Callbacks requested during a flush run on the
// following flush.
type FrameQueue struct {
	pending []queuedFrame
	nextID  FrameID
}

// RequestFrame queues fn for the next Flush.
func (q *FrameQueue) RequestFrame(fn func(now time.Time)) FrameID {
	q.nextID++
	q.pending = append(q.pending, queuedFrame{id: q.nextID, fn: fn})
	return q.nextID
}

// CancelFrame drops a queued request. Unknown ids are ignored.
func (q *FrameQueue) CancelFrame(id FrameID) {
	for i := range q.pending {
		if q.pending[i].id == id {
			q.pending = append(q.pending[:i:i], q.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued requests.
func (q *FrameQueue) Pending() int { return len(q.pending) }

// Flush runs every callback queued before the call and returns how many ran.
func (q *FrameQueue) Flush(now time.Time) int {
	batch := q.pending
	q.pending = nil
	for _, f := range batch {
		f.fn(now)
	}
	return len(batch)
}
