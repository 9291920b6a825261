package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// asyncWriter decouples log formatting from sink I/O. Records and flush
// requests travel through one channel, so a flush only completes after every
// record enqueued before it has been written.
type asyncWriter struct {
	jobs  chan writerJob
	done  chan struct{}
	once  sync.Once
	sinks []*bufio.Writer

	err atomic.Pointer[error]
}

// writerJob carries either a record to write or, when ack is set, a flush
// barrier to acknowledge.
type writerJob struct {
	data []byte
	ack  chan error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	sinks := make([]*bufio.Writer, 0, len(writers))
	for _, w := range writers {
		if w == nil {
			continue
		}
		sinks = append(sinks, bufio.NewWriterSize(w, bufSize))
	}
	aw := &asyncWriter{
		jobs:  make(chan writerJob, 256),
		done:  make(chan struct{}),
		sinks: sinks,
	}
	go aw.loop()
	return aw
}

// loop owns the sinks; no other goroutine touches them.
func (w *asyncWriter) loop() {
	for job := range w.jobs {
		if job.ack != nil {
			job.ack <- w.flushSinks()
			continue
		}
		if len(job.data) == 0 {
			continue
		}
		if err := w.writeSinks(job.data); err != nil {
			w.recordErr(err)
		}
	}
	w.recordErr(w.flushSinks())
	close(w.done)
}

// Write enqueues one formatted record, blocking when the queue is saturated
// so records are never dropped.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.loadErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	data := make([]byte, len(p))
	copy(data, p)
	w.jobs <- writerJob{data: data}
	return nil
}

// Flush blocks until everything enqueued so far reached the sinks.
func (w *asyncWriter) Flush() error {
	select {
	case <-w.done:
		return w.loadErr()
	default:
	}
	ack := make(chan error, 1)
	w.jobs <- writerJob{ack: ack}
	if err := <-ack; err != nil {
		return err
	}
	return w.loadErr()
}

// Close drains the queue, flushes the sinks, and reports the first write
// error seen over the writer's lifetime.
func (w *asyncWriter) Close() error {
	w.once.Do(func() {
		close(w.jobs)
	})
	<-w.done
	return w.loadErr()
}

func (w *asyncWriter) writeSinks(p []byte) error {
	for _, sink := range w.sinks {
		if _, err := sink.Write(p); err != nil {
			return err
		}
		// Flush per record; log lines must be visible immediately.
		if err := sink.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushSinks() error {
	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) loadErr() error {
	if p := w.err.Load(); p != nil {
		return *p
	}
	return nil
}

func (w *asyncWriter) recordErr(err error) {
	if err == nil {
		return
	}
	w.err.CompareAndSwap(nil, &err)
}
