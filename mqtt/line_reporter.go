package mqtt

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

const defaultLineBuffer = 64

// LineReporter publishes every diagnostic line as a message on its topic. Lines
// are queued and published by Run, a line arriving at a full queue is dropped.
type LineReporter struct {
	publisher Publisher
	topic     string
	lines     chan string

	lock    sync.Mutex
	lastErr error
}

func NewLineReporter(publisher Publisher, topic string, buffer int) *LineReporter {
	if buffer < 1 {
		buffer = defaultLineBuffer
	}
	return &LineReporter{
		publisher: publisher,
		topic:     topic,
		lines:     make(chan string, buffer),
	}
}

// WriteLine queues the line without waiting for the broker. The returned error
// is a full queue or the result of the last publish.
func (lr *LineReporter) WriteLine(line string) error {
	select {
	case lr.lines <- line:
	default:
		return errors.Errorf("queue for %s full, line dropped", lr.topic)
	}

	return lr.Err()
}

func (lr *LineReporter) Err() error {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	return lr.lastErr
}

// Run publishes queued lines until ctx is done.
func (lr *LineReporter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line := <-lr.lines:
			err := lr.publisher.Publish(lr.topic, []byte(line))
			if err != nil {
				err = errors.Wrapf(err, "failed to publish to %s", lr.topic)
			}

			lr.lock.Lock()
			lr.lastErr = err
			lr.lock.Unlock()
		}
	}
}
