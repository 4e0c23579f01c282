// Package pipeline streams bytes from a source through zero or more
// transforms into a sink.
//
// Stages run concurrently and are joined by synchronous pipes, so a slow sink
// stalls the source. Pipe settles exactly once: with nil after the sink has
// been closed cleanly, or with the first error raised by any stage. Whatever
// the outcome, every stage is closed exactly once before Pipe returns and no
// goroutine started by Pipe is left running.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrTooFewStages is returned when the source or the sink is missing.
	ErrTooFewStages = errors.New("pipeline needs at least a source and a sink")

	errDestroyed = errors.New("pipeline stage destroyed")
)

// Stage names used in PipelineError.
const (
	StageSource    = "source"
	StageTransform = "transform"
	StageSink      = "sink"
)

// Transform rewrites the bytes read from src into dst.
type Transform interface {
	Transform(dst io.Writer, src io.Reader) error
	io.Closer
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc func(dst io.Writer, src io.Reader) error

// Transform calls f(dst, src).
func (f TransformFunc) Transform(dst io.Writer, src io.Reader) error {
	return f(dst, src)
}

// Close does nothing.
func (f TransformFunc) Close() error {
	return nil
}

// PipelineError reports the stage that failed first.
type PipelineError struct {
	Stage string
	Index int // position in the chain, the source is 0
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline %s (stage %d): %v", e.Stage, e.Index, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Pipe copies src through transforms into sink and closes sink once every
// byte has been written. All stages are closed when Pipe returns.
func Pipe(ctx context.Context, src io.ReadCloser, sink io.WriteCloser, transforms ...Transform) error {
	if src == nil || sink == nil {
		return ErrTooFewStages
	}

	r := newRun(src, sink, transforms)
	defer r.destroy()

	g, gctx := errgroup.WithContext(ctx)

	// Any failure, or the caller giving up, tears every stage down so that
	// blocked reads and writes return.
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		<-gctx.Done()
		r.destroy()
	}()

	var upstream io.Reader = &stageReader{r: src, run: r}
	for i, t := range transforms {
		index, in, pw := i+1, upstream, r.writers[i]
		g.Go(func() error {
			if err := t.Transform(pw, in); err != nil {
				err = r.fail(StageTransform, index, err)
				pw.CloseWithError(err)
				return err
			}
			// Trailing bytes the transform ignored must not stall upstream.
			if _, err := io.Copy(io.Discard, in); err != nil {
				err = r.fail(StageTransform, index, err)
				pw.CloseWithError(err)
				return err
			}
			pw.Close()
			return nil
		})
		upstream = r.readers[i]
	}

	sinkIndex := len(transforms) + 1
	last := upstream
	g.Go(func() error {
		w := &stageWriter{w: sink, index: sinkIndex, run: r}
		if _, err := io.Copy(w, last); err != nil {
			return r.fail(StageSink, sinkIndex, err)
		}
		// Closing the sink is the finish signal: buffered bytes hit disk here.
		if err := r.sink.Close(); err != nil {
			return r.fail(StageSink, sinkIndex, err)
		}
		return nil
	})

	err := g.Wait()
	<-watchDone

	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// run holds the stages of one Pipe call.
type run struct {
	src        *onceCloser
	sink       *onceCloser
	transforms []*onceCloser
	readers    []*io.PipeReader
	writers    []*io.PipeWriter

	mu       sync.Mutex
	settled  error
	teardown sync.Once
}

func newRun(src io.ReadCloser, sink io.WriteCloser, transforms []Transform) *run {
	r := &run{
		src:  &onceCloser{c: src},
		sink: &onceCloser{c: sink},
	}
	for _, t := range transforms {
		pr, pw := io.Pipe()
		r.transforms = append(r.transforms, &onceCloser{c: t})
		r.readers = append(r.readers, pr)
		r.writers = append(r.writers, pw)
	}
	return r
}

// fail records the outcome of the run. Only the first call has an effect;
// every call returns the error that settled the run.
func (r *run) fail(stage string, index int, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settled != nil {
		return r.settled
	}

	var pe *PipelineError
	if errors.As(err, &pe) {
		r.settled = pe
	} else {
		r.settled = &PipelineError{Stage: stage, Index: index, Err: err}
	}
	return r.settled
}

// destroy closes every pipe and stage. Later calls do nothing.
func (r *run) destroy() {
	r.teardown.Do(func() {
		for i := range r.readers {
			r.readers[i].CloseWithError(errDestroyed)
			r.writers[i].CloseWithError(errDestroyed)
		}
		r.src.Close()
		for _, t := range r.transforms {
			t.Close()
		}
		r.sink.Close()
	})
}

// stageReader attributes read failures to the source.
type stageReader struct {
	r   io.Reader
	run *run
}

func (s *stageReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		err = s.run.fail(StageSource, 0, err)
	}
	return n, err
}

// stageWriter attributes write failures to the sink.
type stageWriter struct {
	w     io.Writer
	index int
	run   *run
}

func (s *stageWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		err = s.run.fail(StageSink, s.index, err)
	}
	return n, err
}

// onceCloser closes the wrapped closer at most once.
type onceCloser struct {
	c    io.Closer
	once sync.Once
	err  error
}

func (o *onceCloser) Close() error {
	o.once.Do(func() {
		o.err = o.c.Close()
	})
	return o.err
}
