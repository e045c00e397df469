// Package controller drives an analysis session: health check, submission,
// status polling and reset.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/huangsam/codearchitect/internal/contract"
	"github.com/huangsam/codearchitect/internal/logging"
	"github.com/huangsam/codearchitect/internal/session"
	"github.com/huangsam/codearchitect/schema"
)

// ErrNoSession is returned when polling is requested without an identifier.
var ErrNoSession = errors.New("no analysis identifier to poll")

// DefaultErrorBuffer is the capacity of the poll error channel.
const DefaultErrorBuffer = 16

// PollError describes one failed poll tick. Polling continues after it.
type PollError struct {
	AnalysisID string
	Seq        uint64
	Err        error
}

func (e PollError) Error() string {
	return fmt.Sprintf("poll %d for analysis %s failed: %v", e.Seq, e.AnalysisID, e.Err)
}

func (e PollError) Unwrap() error { return e.Err }

// Controller is the page-level state machine over the session status:
// idle -> analyzing -> completed | failed, with reset back to idle.
type Controller struct {
	client    contract.AnalysisClient
	store     *session.Store
	history   contract.HistoryStore
	log       *logrus.Logger
	interval  time.Duration
	newTicker TickerFunc
	now       func() time.Time

	errs chan PollError

	mu      sync.Mutex
	banner  string
	loading bool
	poll    *pollTask
}

// Option customizes a Controller.
type Option func(*Controller)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithTicker replaces the timer factory, mainly for tests.
func WithTicker(fn TickerFunc) Option {
	return func(c *Controller) { c.newTicker = fn }
}

// WithLogger sets the log sink for poll failures.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithHistory records sessions into a history store.
func WithHistory(h contract.HistoryStore) Option {
	return func(c *Controller) { c.history = h }
}

// WithErrorBuffer sets the capacity of the poll error channel.
func WithErrorBuffer(n int) Option {
	return func(c *Controller) { c.errs = make(chan PollError, n) }
}

// New creates a Controller writing into store.
func New(client contract.AnalysisClient, store *session.Store, opts ...Option) *Controller {
	c := &Controller{
		client:    client,
		store:     store,
		log:       logging.Discard(),
		interval:  schema.DefaultPollInterval,
		newTicker: NewTimeTicker,
		now:       time.Now,
		errs:      make(chan PollError, DefaultErrorBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the session store owned by the controller.
func (c *Controller) Store() *session.Store {
	return c.store
}

// Errors exposes poll failures. Sends never block: when the buffer is full
// the failure is only logged.
func (c *Controller) Errors() <-chan PollError {
	return c.errs
}

// Banner returns the current advisory or error banner, if any.
func (c *Controller) Banner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner
}

// Loading reports whether a submission is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Polling reports whether a poll task is active.
func (c *Controller) Polling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poll != nil && !c.poll.stopped()
}

// CheckHealth runs the load-time health check. A failure sets the advisory
// banner and is returned, but nothing is blocked by it.
func (c *Controller) CheckHealth(ctx context.Context) (schema.HealthResponse, error) {
	resp, err := c.client.Health(ctx)
	if err != nil {
		c.log.WithError(err).Warn("backend health check failed")
		c.setBanner(contract.BackendUnavailableMessage)
		return schema.HealthResponse{}, err
	}
	return resp, nil
}

// Submit starts an analysis. On success the session holds the new
// identifier and status, and polling starts when the status is analyzing.
// On failure the banner carries the error message and the session is left
// untouched.
func (c *Controller) Submit(ctx context.Context, req schema.AnalysisRequest) (schema.StartResponse, error) {
	c.mu.Lock()
	c.loading = true
	c.banner = ""
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	resp, err := c.client.Start(ctx, req)
	if err != nil {
		c.setBanner(contract.SubmissionErrorMessage(err))
		return schema.StartResponse{}, err
	}

	c.stopPolling()
	c.store.Apply(func(tx *session.Tx) {
		tx.SetAnalysisID(resp.AnalysisID)
		tx.SetStatus(resp.Status)
		// Results arrive by polling; drop any left from an earlier session.
		tx.SetFindings(nil)
		tx.SetRecommendations(nil)
	})
	c.log.WithFields(logrus.Fields{
		"analysis_id": resp.AnalysisID,
		"status":      resp.Status,
	}).Info("analysis started")

	if c.history != nil && resp.AnalysisID != "" {
		if err := c.history.BeginSession(resp.AnalysisID, req, c.now()); err != nil {
			c.log.WithError(err).Warn("failed to record session start")
		}
	}

	if resp.Status.IsTerminal() {
		c.recordEnd(c.store.Snapshot())
	}
	c.maybeStartPolling()
	return resp, nil
}

// Attach polls an analysis that was started elsewhere.
func (c *Controller) Attach(analysisID string) error {
	if analysisID == "" {
		return ErrNoSession
	}
	c.stopPolling()
	c.store.Apply(func(tx *session.Tx) {
		tx.SetAnalysisID(analysisID)
		tx.SetStatus(schema.AnalyzingStatus)
		tx.SetFindings(nil)
		tx.SetRecommendations(nil)
	})
	c.maybeStartPolling()
	return nil
}

// Reset returns to idle from any state: the timer is cancelled, the session
// cleared and the banner removed.
func (c *Controller) Reset() {
	c.stopPolling()
	c.store.Reset()
	c.setBanner("")
}

// Close cancels any pending timer without touching the session.
func (c *Controller) Close() {
	c.stopPolling()
}

// Done returns a channel closed when the current poll task stops. With no
// task it is already closed.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poll == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.poll.done
}

// Wait blocks until polling stops or ctx is done, and returns the session.
func (c *Controller) Wait(ctx context.Context) (schema.AnalysisSession, error) {
	select {
	case <-c.Done():
		return c.store.Snapshot(), nil
	case <-ctx.Done():
		return c.store.Snapshot(), ctx.Err()
	}
}

func (c *Controller) setBanner(msg string) {
	c.mu.Lock()
	c.banner = msg
	c.mu.Unlock()
}

// maybeStartPolling starts a poll task when the session has an identifier
// and a status that waits on the backend.
func (c *Controller) maybeStartPolling() {
	snap := c.store.Snapshot()
	if !snap.HasID() || !snap.Status.IsPolling() {
		return
	}
	task := newPollTask(snap.AnalysisID, c.newTicker(c.interval))

	// At most one task polls; a concurrent submit may have started another.
	c.mu.Lock()
	prev := c.poll
	c.poll = task
	c.mu.Unlock()
	if prev != nil {
		prev.stop()
	}

	go c.runPoll(task)
}

func (c *Controller) stopPolling() {
	c.mu.Lock()
	task := c.poll
	c.mu.Unlock()
	if task != nil {
		task.stop()
	}
}

func (c *Controller) recordEnd(final schema.AnalysisSession) {
	if c.history == nil || !final.HasID() {
		return
	}
	if err := c.history.EndSession(final.AnalysisID, c.now(), final); err != nil {
		c.log.WithError(err).Warn("failed to record session end")
	}
}

func (c *Controller) emit(pe PollError) {
	select {
	case c.errs <- pe:
	default:
		c.log.WithField("analysis_id", pe.AnalysisID).Debug("poll error channel full, dropping")
	}
}
