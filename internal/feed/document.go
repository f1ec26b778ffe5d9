// Package feed loads pool snapshots: from a local file, from an HTTP
// endpoint, or pushed to an embedded HTTP receiver.
package feed

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"poolboard/internal/pool"
)

// Document is the wire and file form of a snapshot.
type Document struct {
	Block uint64        `json:"block" yaml:"block"`
	Pools []pool.Record `json:"pools" yaml:"pools"`
}

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the encoding from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses data in format f.
func Decode(data []byte, f Format) (Document, error) {
	var doc Document
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return Document{}, fmt.Errorf("decode %s pools: %w", f, err)
	}
	return doc, nil
}

// Normalize drops records without a staking address and every repeat of an
// address already seen, returning the kept records and how many were
// dropped.
func Normalize(recs []pool.Record) ([]pool.Record, int) {
	out := make([]pool.Record, 0, len(recs))
	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		k := r.Key()
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out, len(recs) - len(out)
}

// Sequencer numbers snapshots. Sources sharing one Sequencer produce
// strictly increasing sequence numbers across all of them.
type Sequencer struct {
	n atomic.Uint64
}

// Next returns the next sequence number, starting at 1.
func (s *Sequencer) Next() uint64 {
	return s.n.Add(1)
}

var defaultSequencer Sequencer

func sequencerOr(s *Sequencer) *Sequencer {
	if s == nil {
		return &defaultSequencer
	}
	return s
}

// Snapshot turns doc into a numbered snapshot.
func (s *Sequencer) Snapshot(doc Document) (pool.Snapshot, int) {
	recs, dropped := Normalize(doc.Pools)
	return pool.Snapshot{
		Seq:       s.Next(),
		Block:     doc.Block,
		Records:   recs,
		FetchedAt: time.Now(),
	}, dropped
}
