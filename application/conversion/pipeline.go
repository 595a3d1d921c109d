package conversion

import (
	"context"
	"fmt"
	"sync"

	"vidtowav/domain/conversion"

	"go.uber.org/zap"
)

// Pipeline runs preflight, discovery and the engine on a dedicated worker
// goroutine so the caller is never blocked by directory I/O or ffmpeg.
// Only one run may be active at a time.
type Pipeline struct {
	probe      conversion.ToolProbe
	discoverer conversion.Discoverer
	engine     *Service
	logger     *zap.Logger

	mu     sync.Mutex
	active *Job
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets the diagnostic logger
func WithPipelineLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline
func NewPipeline(probe conversion.ToolProbe, discoverer conversion.Discoverer, engine *Service, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		probe:      probe,
		discoverer: discoverer,
		engine:     engine,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("pipeline")
	return p
}

// Job is a handle to one background run
type Job struct {
	stop    StopFlag
	done    chan struct{}
	summary conversion.Summary
	err     error
}

// Stop asks the run to halt before its next item
func (j *Job) Stop() {
	j.stop.Stop()
}

// Done is closed when the run has finished and the summary was delivered
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the run finishes. The error is non-nil only when
// discovery failed.
func (j *Job) Wait() (conversion.Summary, error) {
	<-j.done
	return j.summary, j.err
}

// Start validates req, checks that ffmpeg can be launched and starts the
// run in the background. req must not be modified until the job is done.
func (p *Pipeline) Start(ctx context.Context, req *conversion.Request, sink conversion.Sink) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !p.probe.IsToolAvailable(ctx) {
		return nil, conversion.ErrToolUnavailable
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil {
		return nil, conversion.ErrRunInProgress
	}

	job := &Job{done: make(chan struct{})}
	p.active = job

	go p.run(ctx, job, req, sink)
	return job, nil
}

// Run starts a job and waits for it
func (p *Pipeline) Run(ctx context.Context, req *conversion.Request, sink conversion.Sink) (conversion.Summary, error) {
	job, err := p.Start(ctx, req, sink)
	if err != nil {
		return conversion.Summary{}, err
	}
	return job.Wait()
}

func (p *Pipeline) run(ctx context.Context, job *Job, req *conversion.Request, sink conversion.Sink) {
	defer func() {
		p.mu.Lock()
		p.active = nil
		p.mu.Unlock()
		close(job.done)
	}()

	sink.OnLog(searchingLine(req))
	if len(req.ScanFolders()) > 0 {
		sink.OnLog(extensionsLine(req))
	}

	items, err := p.discoverer.Discover(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			sink.OnLog(LineStopped)
			job.summary = p.engine.finish(conversion.Summary{Started: p.engine.now(), Stopped: true}, sink)
			return
		}
		p.logger.Error("discovery failed", zap.Error(err))
		sink.OnLog(fmt.Sprintf("Discovery failed: %v", err))
		job.err = err
		job.summary = p.engine.Run(ctx, nil, req, sink, &job.stop)
		return
	}

	if len(items) == 0 {
		sink.OnLog(LineNoFiles)
	} else {
		sink.OnLog(foundLine(len(items)))
		sink.OnLog(formatLine(req))
	}

	job.summary = p.engine.Run(ctx, items, req, sink, &job.stop)
}
