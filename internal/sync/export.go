package sync

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// FormatVersion is the export format version written in the header.
const FormatVersion = "1"

// Record type discriminators.
const (
	recordHeader     = "header"
	recordNode       = "node"
	recordConnection = "connection"
)

// Source is what ExportJSONL reads from. *graph.Store satisfies it.
type Source interface {
	Nodes() []model.Node
	Connections() []model.Connection
}

// Header is the first JSONL record written by ExportJSONL.
type Header struct {
	Version         string    `json:"version"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	NodeCount       int       `json:"node_count"`
	ConnectionCount int       `json:"connection_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every node then every connection from src as JSONL to
// w, preserving store order.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) error {
	nodes := src.Nodes()
	conns := src.Connections()

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(Header{
		Version:         FormatVersion,
		Type:            recordHeader,
		Timestamp:       time.Now().UTC(),
		NodeCount:       len(nodes),
		ConnectionCount: len(conns),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(record{Type: recordNode, Data: n}); err != nil {
			return fmt.Errorf("encode node %s: %w", n.ID, err)
		}
	}
	for _, c := range conns {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(record{Type: recordConnection, Data: c}); err != nil {
			return fmt.Errorf("encode connection %s: %w", c.ID, err)
		}
	}
	return nil
}

// ErrMissingHeader is returned when an import does not start with a header
// record.
var ErrMissingHeader = errors.New("missing header record")

// ImportJSONL reads an export written by ExportJSONL. Unknown record types
// and a missing or unsupported header are errors.
func ImportJSONL(r io.Reader) ([]model.Node, []model.Connection, error) {
	nodes := []model.Node{}
	conns := []model.Connection{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	sawHeader := false
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec struct {
			Type    string          `json:"type"`
			Version string          `json:"version"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		if !sawHeader {
			if rec.Type != recordHeader {
				return nil, nil, fmt.Errorf("line %d: %w", line, ErrMissingHeader)
			}
			if rec.Version != FormatVersion {
				return nil, nil, fmt.Errorf("line %d: unsupported version %q", line, rec.Version)
			}
			sawHeader = true
			continue
		}

		switch rec.Type {
		case recordNode:
			var n model.Node
			if err := json.Unmarshal(rec.Data, &n); err != nil {
				return nil, nil, fmt.Errorf("line %d: decode node: %w", line, err)
			}
			nodes = append(nodes, n)
		case recordConnection:
			var c model.Connection
			if err := json.Unmarshal(rec.Data, &c); err != nil {
				return nil, nil, fmt.Errorf("line %d: decode connection: %w", line, err)
			}
			conns = append(conns, c)
		default:
			return nil, nil, fmt.Errorf("line %d: unknown record type %q", line, rec.Type)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read export: %w", err)
	}
	if !sawHeader {
		return nil, nil, ErrMissingHeader
	}
	return nodes, conns, nil
}
