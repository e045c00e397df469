package controller

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/huangsam/codearchitect/internal/session"
)

// pollTask is one cancellable repeating status fetch. Every tick gets the
// next sequence number; a response older than the newest applied one is
// dropped.
type pollTask struct {
	analysisID string
	ticker     Ticker
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	stopOnce   sync.Once

	seq atomic.Uint64

	mu       sync.Mutex
	applied  uint64
	finished bool
}

func newPollTask(analysisID string, ticker Ticker) *pollTask {
	ctx, cancel := context.WithCancel(context.Background())
	return &pollTask{
		analysisID: analysisID,
		ticker:     ticker,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// stop cancels the timer and any in-flight request. Only the first call
// has an effect.
func (t *pollTask) stop() {
	t.mu.Lock()
	t.finished = true
	t.mu.Unlock()

	t.stopOnce.Do(func() {
		t.ticker.Stop()
		t.cancel()
		close(t.done)
	})
}

func (t *pollTask) isFinished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

func (t *pollTask) stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// runPoll issues one request per tick until the task stops. Ticks are not
// serialized: a slow response may still be in flight when the next fires.
func (c *Controller) runPoll(t *pollTask) {
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-t.ticker.C():
			if t.ctx.Err() != nil || t.isFinished() {
				return
			}
			seq := t.seq.Add(1)
			go c.pollOnce(t, seq)
		}
	}
}

func (c *Controller) pollOnce(t *pollTask, seq uint64) {
	entry := c.log.WithFields(logrus.Fields{
		"analysis_id": t.analysisID,
		"seq":         seq,
	})

	resp, err := c.client.GetStatus(t.ctx, t.analysisID)
	if err != nil {
		if t.ctx.Err() != nil {
			return
		}
		entry.WithError(err).Warn("failed to poll analysis status")
		c.emit(PollError{AnalysisID: t.analysisID, Seq: seq, Err: err})
		return
	}

	t.mu.Lock()
	if t.finished || seq < t.applied {
		t.mu.Unlock()
		entry.Debug("discarding stale poll response")
		return
	}
	t.applied = seq
	halt := !resp.Status.IsPolling()
	if halt {
		t.finished = true
	}
	c.store.Apply(func(tx *session.Tx) {
		tx.SetStatus(resp.Status)
		if resp.Findings != nil {
			tx.SetFindings(resp.Findings)
		}
		if resp.Recommendations != nil {
			tx.SetRecommendations(resp.Recommendations)
		}
	})
	t.mu.Unlock()

	entry.WithField("status", resp.Status).Debug("applied poll response")

	if halt {
		if resp.Status.IsTerminal() {
			entry.WithField("status", resp.Status).Info("analysis finished")
			c.recordEnd(c.store.Snapshot())
		}
		t.stop()
	}
}
