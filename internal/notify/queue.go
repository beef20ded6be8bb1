package notify

import (
	"log/slog"
	"sync"

	"recipe-importer/pkg/api"
)

// QueueNotifier buffers notices for a consumer such as the daemon's notice
// stream. When the buffer is full the oldest notice is dropped so that an
// import never blocks on a slow reader.
type QueueNotifier struct {
	mu     sync.Mutex
	notes  chan api.Notice
	closed bool
}

func NewQueueNotifier(size int) *QueueNotifier {
	return &QueueNotifier{
		notes: make(chan api.Notice, size),
	}
}

func (q *QueueNotifier) Notify(notice api.Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	for {
		select {
		case q.notes <- notice:
			return
		default:
		}

		select {
		case dropped := <-q.notes:
			slog.Warn("notice queue full, dropping oldest notice", "recipe", dropped.Recipe, "level", dropped.Level)
		default:
		}
	}
}

func (q *QueueNotifier) Notices() <-chan api.Notice {
	return q.notes
}

func (q *QueueNotifier) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		close(q.notes)
		q.closed = true
	}
}
