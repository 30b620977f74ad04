package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/transcription"
)

// DeliverFunc receives the outcome of a job that was still current when it
// finished.
type DeliverFunc func(job *Job, res *transcription.Result, err error)

// Job is one submitted transcription request.
type Job struct {
	ID       uuid.UUID
	Audio    transcription.AudioRef
	Language string
	Started  time.Time

	cancel     context.CancelFunc
	done       chan struct{}
	superseded atomic.Bool

	res *transcription.Result
	err error
}

// Done is closed when the job's transcription returns, delivered or not.
func (j *Job) Done() <-chan struct{} { return j.done }

// Result returns the outcome. It is valid after Done is closed.
func (j *Job) Result() (*transcription.Result, error) {
	<-j.done
	return j.res, j.err
}

// Superseded reports whether a later job or Cancel replaced this one.
func (j *Job) Superseded() bool { return j.superseded.Load() }

// Session owns the current job of one caller.
type Session struct {
	tr  transcription.Transcriber
	log *logger.Logger

	mu      sync.Mutex
	current *Job
	wg      sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option { return func(s *Session) { s.log = l } }

// NewSession creates a Session running jobs on tr.
func NewSession(tr transcription.Transcriber, opts ...Option) *Session {
	s := &Session{tr: tr}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.OrNop(s.log).WithComponent("worker")
	return s
}

// Submit starts audio on its own goroutine and supersedes the current job.
func (s *Session) Submit(ctx context.Context, audio transcription.AudioRef, deliver DeliverFunc) *Job {
	return s.SubmitLanguage(ctx, audio, "", deliver)
}

// SubmitLanguage is Submit with an explicit language code. An empty code
// lets the transcriber choose.
func (s *Session) SubmitLanguage(ctx context.Context, audio transcription.AudioRef, languageCode string, deliver DeliverFunc) *Job {
	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		ID:       uuid.New(),
		Audio:    audio,
		Language: languageCode,
		Started:  time.Now(),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	if prev := s.current; prev != nil {
		prev.superseded.Store(true)
		s.log.Debug("job superseded", logger.Fields(logger.FieldRequestID, prev.ID.String()))
	}
	s.current = job
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(jobCtx, job, deliver)
	return job
}

func (s *Session) run(ctx context.Context, job *Job, deliver DeliverFunc) {
	defer s.wg.Done()
	defer job.cancel()

	log := s.log.WithFields(logger.Fields(logger.FieldRequestID, job.ID.String(), logger.FieldPath, job.Audio.Path))
	if job.Language == "" {
		job.res, job.err = s.tr.Transcribe(ctx, job.Audio)
	} else {
		job.res, job.err = s.tr.TranscribeLanguage(ctx, job.Audio, job.Language)
	}
	close(job.done)

	s.mu.Lock()
	current := s.current == job && !job.Superseded()
	if current {
		s.current = nil
	}
	s.mu.Unlock()

	if !current {
		log.Debug("dropping superseded result")
		return
	}
	log.Debug("job finished", logger.Fields(logger.FieldDuration, time.Since(job.Started).Milliseconds()))
	if deliver != nil {
		deliver(job, job.res, job.err)
	}
}

// Current returns the job whose result will be delivered, or nil.
func (s *Session) Current() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cancel abandons the current job: its context is cancelled so pending
// sleeps and HTTP calls return promptly, and its delivery is suppressed.
func (s *Session) Cancel() {
	s.mu.Lock()
	job := s.current
	s.current = nil
	s.mu.Unlock()
	if job != nil {
		job.superseded.Store(true)
		job.cancel()
	}
}

// Wait blocks until every started job has returned.
func (s *Session) Wait() { s.wg.Wait() }
