package ws

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"chatter-service/internal/observability"
)

// defaultSendTimeout bounds every broadcast delivery so a stalled
// recipient cannot hold up the fan-out.
const defaultSendTimeout = 5 * time.Second

var ErrSessionNotFound = errors.New("session not registered")

// Sender delivers one framed payload to a connected client.
type Sender interface {
	Send(payload []byte) error
	Close() error
}

// BroadcastResult reports the outcome of one fan-out.
type BroadcastResult struct {
	// Delivered is the number of sessions that received the payload.
	Delivered int
	// Failed holds the session ids whose send failed or timed out;
	// they have already been closed and unregistered.
	Failed []string
}

type session struct {
	id          string
	sender      Sender
	connectedAt time.Time
}

// Registry owns the set of live sessions. Callers only see register,
// unregister and broadcast; the underlying map is never exposed.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*session
	sendTimeout time.Duration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]*session),
		sendTimeout: defaultSendTimeout,
	}
}

// Register adds a session. Session ids are generated by the transport
// layer and must be unique among live sessions; a collision is a
// programmer error and panics rather than being surfaced to the client.
func (r *Registry) Register(id string, sender Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; exists {
		panic(fmt.Sprintf("ws: duplicate session id %q", id))
	}
	r.sessions[id] = &session{id: id, sender: sender, connectedAt: time.Now()}
	observability.SetWSActive(len(r.sessions))
}

// Unregister removes a session. Unknown ids are a no-op so duplicate or
// late disconnect notifications are harmless.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; !exists {
		return
	}
	delete(r.sessions, id)
	observability.SetWSActive(len(r.sessions))
}

// SendTo delivers a payload to a single session.
func (r *Registry) SendTo(id string, payload []byte) error {
	r.mu.Lock()
	sess, exists := r.sessions[id]
	r.mu.Unlock()
	if !exists {
		return ErrSessionNotFound
	}
	return r.sendBounded(sess, payload)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Broadcast delivers the payload to every session registered at the
// moment the snapshot is taken. Sends run in parallel once the snapshot
// is read; a failed or timed-out recipient is closed and unregistered
// without affecting delivery to the rest.
func (r *Registry) Broadcast(payload []byte) BroadcastResult {
	r.mu.Lock()
	snapshot := make([]*session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		snapshot = append(snapshot, sess)
	}
	r.mu.Unlock()

	var (
		wg       sync.WaitGroup
		failedMu sync.Mutex
		failed   []string
	)
	for _, sess := range snapshot {
		wg.Add(1)
		go func(sess *session) {
			defer wg.Done()
			if err := r.sendBounded(sess, payload); err != nil {
				zap.L().Warn("broadcast delivery failed",
					zap.String("session_id", sess.id),
					zap.Error(err))
				failedMu.Lock()
				failed = append(failed, sess.id)
				failedMu.Unlock()
			}
		}(sess)
	}
	wg.Wait()

	for _, id := range failed {
		r.dropSession(id)
	}

	result := BroadcastResult{Delivered: len(snapshot) - len(failed), Failed: failed}
	observability.AddBroadcastDelivered(result.Delivered)
	observability.AddBroadcastFailed(len(result.Failed))
	return result
}

// sendBounded performs one delivery with the registry's send timeout.
// The sender is still responsible for serializing concurrent writes.
func (r *Registry) sendBounded(sess *session, payload []byte) error {
	done := make(chan error, 1)
	go func() {
		done <- sess.sender.Send(payload)
	}()

	timer := time.NewTimer(r.sendTimeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("send to session %s timed out after %s", sess.id, r.sendTimeout)
	}
}

func (r *Registry) dropSession(id string) {
	r.mu.Lock()
	sess, exists := r.sessions[id]
	if exists {
		delete(r.sessions, id)
		observability.SetWSActive(len(r.sessions))
	}
	r.mu.Unlock()
	if exists {
		_ = sess.sender.Close()
		observability.IncWSEvent("ws_error")
	}
}
