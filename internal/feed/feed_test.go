package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolboard/internal/pool"
)

const poolsJSON = `{
  "block": 42,
  "pools": [
    {"stakingAddress": "0xa", "totalStake": "1000000000000000000", "isActive": true},
    {"stakingAddress": "0xb", "myStake": 5},
    {"stakingAddress": "0xa"},
    {"miningAddress": "0xorphan"}
  ]
}`

const poolsYAML = `
block: 7
pools:
  - stakingAddress: "0xy1"
    claimableReward: "3000000000000000000"
  - stakingAddress: "0xy2"
`

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("pools.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("POOLS.YML"))
	assert.Equal(t, FormatJSON, FormatOf("pools.json"))
	assert.Equal(t, FormatJSON, FormatOf("pools"))
}

func TestNormalize(t *testing.T) {
	doc, err := Decode([]byte(poolsJSON), FormatJSON)
	require.NoError(t, err)
	recs, dropped := Normalize(doc.Pools)
	assert.Equal(t, 2, dropped)
	require.Len(t, recs, 2)
	assert.Equal(t, "0xa", recs[0].Key())
	assert.True(t, recs[0].IsActive, "first occurrence wins")
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	a, _ := s.Snapshot(Document{})
	b, _ := s.Snapshot(Document{Block: 9})
	assert.Equal(t, uint64(1), a.Seq)
	assert.Equal(t, uint64(2), b.Seq)
	assert.Equal(t, uint64(9), b.Block)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	var seq Sequencer

	jsonPath := filepath.Join(dir, "pools.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(poolsJSON), 0o600))
	snap, err := NewFileSource(jsonPath, &seq, logr.Discard()).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), snap.Block)
	assert.Equal(t, 2, snap.Len())

	yamlPath := filepath.Join(dir, "pools.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(poolsYAML), 0o600))
	src := NewFileSource(yamlPath, &seq, logr.Discard())
	snap2, err := src.Refresh(context.Background())
	require.NoError(t, err)
	assert.Greater(t, snap2.Seq, snap.Seq)
	rec, ok := snap2.Find("0xy1")
	require.True(t, ok)
	assert.EqualValues(t, 3, rec.ClaimableReward.WholeCoins())

	assert.ErrorIs(t, src.ClaimReward(context.Background(), rec), pool.ErrClaimUnsupported)

	_, err = NewFileSource(filepath.Join(dir, "missing.json"), nil, logr.Discard()).Refresh(context.Background())
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = NewFileSource(bad, nil, logr.Discard()).Refresh(context.Background())
	assert.ErrorContains(t, err, "bad.json")
}

func TestFileSource_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pools":[]}`), 0o600))
	src := NewFileSource(path, nil, logr.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan pool.Snapshot, 8)
	done := make(chan error, 1)
	go func() {
		done <- src.Watch(ctx, func(s pool.Snapshot, err error) {
			if err == nil {
				got <- s
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(poolsJSON), 0o600))

	select {
	case s := <-got:
		assert.Equal(t, uint64(42), s.Block)
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot after file write")
	}
	cancel()
	assert.NoError(t, <-done)
}

func TestHTTPSource_Refresh(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, poolsJSON)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", nil, nil, logr.Discard())
	require.NoError(t, src.SetProvider(context.Background(), pool.Provider{Account: "0xme", ChainID: 777012}))
	snap, err := src.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	assert.Contains(t, gotQuery, "account=0xme")
	assert.Contains(t, gotQuery, "chainId=777012")
}

func TestHTTPSource_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "node syncing", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, nil, nil, logr.Discard()).Refresh(context.Background())
	assert.ErrorContains(t, err, "node syncing")
}

func TestHTTPSource_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"pools":[],"pad":"`+strings.Repeat("x", MaxBodyBytes)+`"}`)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, nil, nil, logr.Discard()).Refresh(context.Background())
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestHTTPSource_Claim(t *testing.T) {
	var mu sync.Mutex
	var claims []claimRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/claim" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var c claimRequest
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if c.StakingAddress == "0xnope" {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		mu.Lock()
		claims = append(claims, c)
		mu.Unlock()
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, nil, nil, logr.Discard())
	require.NoError(t, src.ClaimReward(context.Background(), pool.Record{StakingAddress: "0xa"}))
	require.Len(t, claims, 1)
	assert.Equal(t, "0xa", claims[0].StakingAddress)

	err := src.ClaimReward(context.Background(), pool.Record{StakingAddress: "0xnope"})
	assert.True(t, errors.Is(err, pool.ErrClaimUnsupported))
}

func TestReceiver_HandlePools(t *testing.T) {
	var got []pool.Snapshot
	r := NewReceiver("127.0.0.1:0", func(s pool.Snapshot) { got = append(got, s) }, nil, logr.Discard())
	h := r.Handler()

	t.Run("POST valid document", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pools", strings.NewReader(poolsJSON))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Len())

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, 2, body["dropped"])
	})

	t.Run("POST invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pools", bytes.NewReader([]byte("invalid json")))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, got, 1)
	})

	t.Run("GET returns 405", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/pools", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestReceiver_StartStop(t *testing.T) {
	got := make(chan pool.Snapshot, 1)
	r := NewReceiver("127.0.0.1:0", func(s pool.Snapshot) { got <- s }, nil, logr.Discard())
	require.NoError(t, r.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		assert.NoError(t, r.Stop(ctx))
	}()

	resp, err := http.Post("http://"+r.Addr()+"/pools", "application/json", strings.NewReader(poolsJSON))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	select {
	case s := <-got:
		assert.Equal(t, uint64(42), s.Block)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot not forwarded")
	}
}
