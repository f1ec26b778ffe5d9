package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/go-logr/logr"

	"poolboard/internal/pool"
)

// MaxBodyBytes bounds a pushed or fetched document.
const MaxBodyBytes = 8 << 20

// ErrTooLarge is returned for a document over MaxBodyBytes.
var ErrTooLarge = errors.New("pools document too large")

// Receiver accepts snapshots pushed with POST /pools and hands them to a
// sink, typically tea.Program.Send wrapped in a message.
type Receiver struct {
	addr   string
	sink   func(pool.Snapshot)
	seq    *Sequencer
	log    logr.Logger
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// NewReceiver creates a receiver listening on addr (":9877", "127.0.0.1:0").
func NewReceiver(addr string, sink func(pool.Snapshot), seq *Sequencer, log logr.Logger) *Receiver {
	r := &Receiver{addr: addr, sink: sink, seq: sequencerOr(seq), log: log}
	r.server = &http.Server{Handler: r.Handler()}
	return r
}

// Handler returns the receiver's HTTP handler.
func (r *Receiver) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/pools", r.handlePools)
	return mux
}

// Start listens and serves in the background.
func (r *Receiver) Start() error {
	ln, err := net.Listen("tcp", r.addr)
	if err != nil {
		return fmt.Errorf("pools receiver: %w", err)
	}
	r.mu.Lock()
	r.listener = ln
	r.mu.Unlock()

	go func() {
		if err := r.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.log.Error(err, "pools receiver stopped")
		}
	}()
	r.log.Info("pools receiver listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (r *Receiver) Addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener != nil {
		return r.listener.Addr().String()
	}
	return r.addr
}

// Stop gracefully shuts the server down.
func (r *Receiver) Stop(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func (r *Receiver) handlePools(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, req.Body, MaxBodyBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	doc, err := Decode(data, FormatJSON)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, dropped := r.seq.Snapshot(doc)
	r.log.V(1).Info("snapshot pushed", "seq", snap.Seq, "pools", snap.Len(), "dropped", dropped)
	r.sink(snap)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{"seq": snap.Seq, "pools": snap.Len(), "dropped": dropped})
}
