package telegram

import (
	"sync"

	"github.com/sandevgo/pdfchat/internal/service/ingest"
)

const maxPendingUploads = 20

// chatState tracks, per chat, the uploads waiting for /init and the handle
// of the active session.
type chatState struct {
	pending []ingest.Source
	handle  string
}

type chats struct {
	mu    sync.Mutex
	state map[int64]*chatState
}

func newChats() *chats {
	return &chats{state: make(map[int64]*chatState)}
}

func (c *chats) get(chatID int64) *chatState {
	st, ok := c.state[chatID]
	if !ok {
		st = &chatState{}
		c.state[chatID] = st
	}
	return st
}

// addUpload queues src and returns the queue length. Uploads past the limit
// are refused with ok=false.
func (c *chats) addUpload(chatID int64, src ingest.Source) (n int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.get(chatID)
	if len(st.pending) >= maxPendingUploads {
		return len(st.pending), false
	}
	st.pending = append(st.pending, src)
	return len(st.pending), true
}

// takePending empties the upload queue.
func (c *chats) takePending(chatID int64) []ingest.Source {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.get(chatID)
	out := st.pending
	st.pending = nil
	return out
}

// restorePending puts uploads back after a failed /init so the user can retry.
func (c *chats) restorePending(chatID int64, sources []ingest.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.get(chatID)
	st.pending = append(sources, st.pending...)
}

func (c *chats) handle(chatID int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(chatID).handle
}

func (c *chats) setHandle(chatID int64, handle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.get(chatID).handle = handle
}
