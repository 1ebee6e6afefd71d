package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"mercator-hq/solace/pkg/conversation"
	"mercator-hq/solace/pkg/telemetry/logging"
)

// RecorderConfig contains configuration for the audit recorder.
type RecorderConfig struct {
	// BufferSize is the size of the async write channel buffer.
	// Default: 1000
	BufferSize int

	// WriteTimeout bounds one storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// Recorder turns conversation exchanges into audit records and writes them
// asynchronously. It implements conversation.Observer. Recording never
// blocks or fails a request: when the buffer is full the record is dropped
// and counted.
type Recorder struct {
	storage Storage
	config  RecorderConfig
	records chan *Record
	done    chan struct{}
	wg      conc.WaitGroup
	logger  *slog.Logger

	closeOnce sync.Once
	dropped   atomic.Int64
	written   atomic.Int64
}

// NewRecorder creates a recorder and starts its background writer.
func NewRecorder(storage Storage, config RecorderConfig) *Recorder {
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage: storage,
		config:  config,
		records: make(chan *Record, config.BufferSize),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Go(r.worker)

	r.logger.Info("audit recorder initialized", "buffer_size", config.BufferSize)
	return r
}

// ObserveExchange enqueues a record for the exchange.
func (r *Recorder) ObserveExchange(ctx context.Context, ex *conversation.Exchange) {
	record := NewRecord(logging.GetRequestID(ctx), ex)

	select {
	case <-r.done:
		r.dropped.Add(1)
		return
	default:
	}

	select {
	case r.records <- record:
	default:
		r.dropped.Add(1)
		r.logger.Warn("audit buffer full, dropping record",
			"request_id", record.RequestID,
			"buffer_size", r.config.BufferSize)
	}
}

// NewRecord builds a record from an exchange.
func NewRecord(requestID string, ex *conversation.Exchange) *Record {
	return &Record{
		ID:               uuid.New().String(),
		RequestID:        requestID,
		Timestamp:        ex.Timestamp,
		Operation:        ex.Operation,
		Status:           ex.Status,
		Provider:         ex.Provider,
		Model:            ex.Model,
		MessageLength:    ex.MessageLength,
		ReplyLength:      ex.ReplyLength,
		TranscriptTurns:  ex.TranscriptTurns,
		Truncated:        ex.Truncated,
		PromptTokens:     ex.Usage.PromptTokens,
		CompletionTokens: ex.Usage.CompletionTokens,
		TotalTokens:      ex.Usage.TotalTokens,
		ProviderLatency:  ex.ProviderLatency,
		Duration:         ex.Duration,
		ErrorType:        ex.ErrorType,
	}
}

// Dropped returns the number of records dropped because the buffer was full
// or the recorder was closed.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Written returns the number of records stored successfully.
func (r *Recorder) Written() int64 {
	return r.written.Load()
}

// Close stops accepting records, writes everything still buffered and waits
// for the writer to finish. It does not close the storage.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
		r.logger.Info("audit recorder shut down", "written", r.Written(), "dropped", r.Dropped())
	})
	return nil
}

func (r *Recorder) worker() {
	for {
		select {
		case record := <-r.records:
			r.write(record)

		case <-r.done:
			for {
				select {
				case record := <-r.records:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err)
		return
	}
	r.written.Add(1)
}
