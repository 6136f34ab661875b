package preview

import (
	"bufio"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"git.home.luguber.info/inful/kirlent/internal/logfields"
	"git.home.luguber.info/inful/kirlent/internal/metrics"
)

const heartbeatInterval = 30 * time.Second

// Hub manages server-sent-event clients waiting for re-renders.
type Hub struct {
	mu       sync.RWMutex
	nextID   int
	clients  map[int]*client
	recorder metrics.Recorder
	log      *slog.Logger
	closed   bool
	last     int64
}

type client struct {
	id   int
	ch   chan int64
	done chan struct{}
}

// NewHub returns an empty hub reporting its client count to recorder.
func NewHub(recorder metrics.Recorder, log *slog.Logger) *Hub {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Hub{clients: map[int]*client{}, recorder: recorder, log: log}
}

// ServeHTTP implements the SSE endpoint. Every event carries the render
// generation; the first one tells the page which generation it shows.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := &client{ch: make(chan int64, 8), done: make(chan struct{})}
	h.mu.Lock()
	c.id = h.nextID
	h.nextID++
	h.clients[c.id] = c
	current := h.last
	count := len(h.clients)
	h.mu.Unlock()
	h.recorder.SetPreviewClients(count)
	defer h.remove(c.id)

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			h.log.Debug("livereload write", logfields.Error(err))
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}
	if !send(": connected\n\n" + event(current)) {
		return
	}

	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-c.done:
			return
		case <-hb.C:
			if !send(": ping\n\n") {
				return
			}
		case gen := <-c.ch:
			if !send(event(gen)) {
				return
			}
		}
	}
}

func event(gen int64) string {
	return "data: {\"generation\":" + strconv.FormatInt(gen, 10) + "}\n\n"
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.done)
	}
	count := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.recorder.SetPreviewClients(count)
	}
}

// Broadcast announces a new render generation. Clients whose buffers are
// full are dropped; their browsers reconnect.
func (h *Hub) Broadcast(gen int64) {
	h.mu.Lock()
	if h.closed || gen == h.last {
		h.mu.Unlock()
		return
	}
	h.last = gen
	snapshot := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- gen:
		default:
			dropped++
			h.remove(c.id)
		}
	}
	h.log.Debug("livereload broadcast", slog.Int64("generation", gen), slog.Int("clients", len(snapshot)), slog.Int("dropped", dropped))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects all clients and refuses new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*client{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
	h.recorder.SetPreviewClients(0)
}

// reloadScript reconnects after errors and reloads the page when the server
// reports a generation other than the one the page was rendered from.
const reloadScript = `(() => {
  if (window.__KIRLENT_LR__) return;
  window.__KIRLENT_LR__ = true;
  const shown = Number(document.documentElement.dataset.kirlentGeneration || -1);
  function connect() {
    const es = new EventSource('/livereload');
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (p.generation !== shown) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();
`
