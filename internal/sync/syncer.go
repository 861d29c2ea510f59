package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rxdesk/rxdesk/internal/platform/apperr"
)

// Options tune the retry behaviour for records stuck in the error state.
type Options struct {
	// RetryBase is the first backoff interval; it doubles per failed
	// attempt. Zero disables the time gate.
	RetryBase time.Duration
	// MaxAttempts caps retries of a failing record. Zero means unlimited.
	MaxAttempts int
}

// Counts is the per-resource outcome of one run.
type Counts struct {
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Report summarizes one sync run.
type Report struct {
	StartedAt  time.Time          `json:"startedAt"`
	Duration   time.Duration      `json:"duration"`
	Synced     int                `json:"synced"`
	Failed     int                `json:"failed"`
	Skipped    int                `json:"skipped"`
	ByResource map[string]*Counts `json:"byResource"`
}

// QueueStatus is the live backlog of one collection.
type QueueStatus struct {
	Resource string `json:"resource"`
	Pending  int    `json:"pending"`
	Failed   int    `json:"failed"`
}

// Syncer drains the queues one record at a time. Each record's status flip
// is independent: a failure mid-run leaves earlier records synced.
type Syncer struct {
	queues []Queue
	conn   Connectivity
	remote Remote
	opts   Options
	log    zerolog.Logger
	now    func() time.Time

	// lastTry backs the retry gate. Process-local on purpose: after a
	// restart every error record is immediately eligible again.
	lastTry map[string]map[int64]time.Time

	// Observe, when set, is called once per push with the outcome
	// ("synced", "failed", "skipped").
	Observe func(resource, result string)
}

func NewSyncer(queues []Queue, conn Connectivity, remote Remote, opts Options, log zerolog.Logger) *Syncer {
	return &Syncer{
		queues:  queues,
		conn:    conn,
		remote:  remote,
		opts:    opts,
		log:     log,
		now:     time.Now,
		lastTry: make(map[string]map[int64]time.Time),
	}
}

// SetClock overrides the timestamp source. Intended for tests.
func (s *Syncer) SetClock(now func() time.Time) { s.now = now }

// Run pushes every pending record plus every error record eligible for
// retry. It fails fast when offline and otherwise never aborts the batch:
// individual push failures are recorded and the run continues.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	if !s.conn.Online(ctx) {
		return nil, apperr.Offlinef("no network connectivity")
	}

	report := &Report{
		StartedAt:  s.now(),
		ByResource: make(map[string]*Counts),
	}
	for _, q := range s.queues {
		counts := &Counts{}
		report.ByResource[q.Resource()] = counts
		if err := s.drain(ctx, q, counts); err != nil {
			return nil, err
		}
		report.Synced += counts.Synced
		report.Failed += counts.Failed
		report.Skipped += counts.Skipped
	}
	report.Duration = s.now().Sub(report.StartedAt)
	s.log.Info().
		Int("synced", report.Synced).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Dur("duration", report.Duration).
		Msg("sync run finished")
	return report, nil
}

func (s *Syncer) drain(ctx context.Context, q Queue, counts *Counts) error {
	resource := q.Resource()

	pending, err := q.Pending(ctx)
	if err != nil {
		return err
	}
	failed, err := q.Failed(ctx)
	if err != nil {
		return err
	}

	for _, item := range pending {
		s.push(ctx, q, item, counts)
	}
	for _, item := range failed {
		if !s.retryEligible(resource, item) {
			counts.Skipped++
			s.observe(resource, "skipped")
			continue
		}
		s.push(ctx, q, item, counts)
	}
	return nil
}

func (s *Syncer) push(ctx context.Context, q Queue, item Item, counts *Counts) {
	resource := q.Resource()
	s.markTried(resource, item.ID)

	if err := s.remote.Push(ctx, resource, item); err != nil {
		s.log.Warn().Err(err).Str("resource", resource).Int64("id", item.ID).Msg("push failed")
		if err := q.MarkError(ctx, item.ID); err != nil {
			s.log.Error().Err(err).Str("resource", resource).Int64("id", item.ID).Msg("mark error failed")
		}
		counts.Failed++
		s.observe(resource, "failed")
		return
	}
	if err := q.MarkSynced(ctx, item.ID); err != nil {
		s.log.Error().Err(err).Str("resource", resource).Int64("id", item.ID).Msg("mark synced failed")
		counts.Failed++
		s.observe(resource, "failed")
		return
	}
	counts.Synced++
	s.observe(resource, "synced")
}

// retryEligible gates error records by attempt cap and exponential backoff
// since the last in-process try.
func (s *Syncer) retryEligible(resource string, item Item) bool {
	if s.opts.MaxAttempts > 0 && item.Attempts >= s.opts.MaxAttempts {
		return false
	}
	if s.opts.RetryBase <= 0 {
		return true
	}
	last, ok := s.lastTry[resource][item.ID]
	if !ok {
		return true
	}
	wait := s.opts.RetryBase
	for i := 1; i < item.Attempts; i++ {
		wait *= 2
	}
	return s.now().Sub(last) >= wait
}

func (s *Syncer) markTried(resource string, id int64) {
	m := s.lastTry[resource]
	if m == nil {
		m = make(map[int64]time.Time)
		s.lastTry[resource] = m
	}
	m[id] = s.now()
}

func (s *Syncer) observe(resource, result string) {
	if s.Observe != nil {
		s.Observe(resource, result)
	}
}

// Status reports the live backlog without pushing anything.
func (s *Syncer) Status(ctx context.Context) ([]QueueStatus, error) {
	out := make([]QueueStatus, 0, len(s.queues))
	for _, q := range s.queues {
		pending, err := q.Pending(ctx)
		if err != nil {
			return nil, err
		}
		failed, err := q.Failed(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, QueueStatus{
			Resource: q.Resource(),
			Pending:  len(pending),
			Failed:   len(failed),
		})
	}
	return out, nil
}
