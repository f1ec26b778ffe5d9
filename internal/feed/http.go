package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"poolboard/internal/pool"
)

// DefaultTimeout bounds a single HTTP request when the caller sets none.
const DefaultTimeout = 10 * time.Second

// HTTPSource fetches snapshots with GET from a JSON endpoint and submits
// claims with POST to <endpoint>/claim.
type HTTPSource struct {
	endpoint string
	client   *http.Client
	seq      *Sequencer
	log      logr.Logger

	mu       sync.Mutex
	provider pool.Provider
}

// NewHTTPSource returns a source for endpoint. client and seq may be nil.
func NewHTTPSource(endpoint string, client *http.Client, seq *Sequencer, log logr.Logger) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPSource{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
		seq:      sequencerOr(seq),
		log:      log,
	}
}

// SetProvider implements pool.ProviderSetter. Later refreshes report the
// per-account fields for p.Account.
func (s *HTTPSource) SetProvider(_ context.Context, p pool.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
	return nil
}

func (s *HTTPSource) url(suffix string) (string, error) {
	u, err := url.Parse(s.endpoint + suffix)
	if err != nil {
		return "", fmt.Errorf("pools endpoint: %w", err)
	}
	s.mu.Lock()
	p := s.provider
	s.mu.Unlock()
	if p.Account != "" {
		q := u.Query()
		q.Set("account", p.Account)
		if p.ChainID != 0 {
			q.Set("chainId", strconv.FormatUint(p.ChainID, 10))
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Refresh implements pool.Source.
func (s *HTTPSource) Refresh(ctx context.Context) (pool.Snapshot, error) {
	target, err := s.url("")
	if err != nil {
		return pool.Snapshot{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return pool.Snapshot{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return pool.Snapshot{}, fmt.Errorf("fetch pools: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return pool.Snapshot{}, fmt.Errorf("fetch pools: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return pool.Snapshot{}, fmt.Errorf("fetch pools: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return pool.Snapshot{}, fmt.Errorf("fetch pools: %w", ErrTooLarge)
	}
	doc, err := Decode(data, FormatJSON)
	if err != nil {
		return pool.Snapshot{}, err
	}
	snap, dropped := s.seq.Snapshot(doc)
	if dropped > 0 {
		s.log.Info("dropped pools without a unique staking address", "endpoint", s.endpoint, "dropped", dropped)
	}
	return snap, nil
}

type claimRequest struct {
	StakingAddress string `json:"stakingAddress"`
	Account        string `json:"account,omitempty"`
}

// ClaimReward implements pool.Claimer.
func (s *HTTPSource) ClaimReward(ctx context.Context, rec pool.Record) error {
	target, err := s.url("/claim")
	if err != nil {
		return err
	}
	s.mu.Lock()
	account := s.provider.Account
	s.mu.Unlock()

	body, err := json.Marshal(claimRequest{StakingAddress: rec.Key(), Account: account})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("claim reward for %s: %w", rec.Key(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotImplemented {
		return pool.ErrClaimUnsupported
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("claim reward for %s: %w", rec.Key(), err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if text := strings.TrimSpace(string(msg)); text != "" {
		return fmt.Errorf("%s: %s", resp.Status, text)
	}
	return fmt.Errorf("%s", resp.Status)
}
