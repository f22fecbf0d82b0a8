package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// exportLine is one JSONL row of an exported trace.
type exportLine struct {
	Type       string            `json:"type"` // "transition" or "contention"
	Label      string            `json:"label,omitempty"`
	Transition *TransitionRecord `json:"transition,omitempty"`
	Contention *ContentionRecord `json:"contention,omitempty"`
}

// WriteJSONLZstd writes the trace as zstd-compressed JSON lines, transitions
// first, then contentions.
func WriteJSONLZstd(w io.Writer, st *SimulationTrace) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}
	bw := bufio.NewWriter(enc)
	jw := json.NewEncoder(bw)

	if st != nil {
		for i := range st.Transitions {
			line := exportLine{Type: "transition", Label: st.Config.Label, Transition: &st.Transitions[i]}
			if err := jw.Encode(line); err != nil {
				_ = enc.Close()
				return fmt.Errorf("encoding transition %d: %w", i, err)
			}
		}
		for i := range st.Contentions {
			line := exportLine{Type: "contention", Label: st.Config.Label, Contention: &st.Contentions[i]}
			if err := jw.Encode(line); err != nil {
				_ = enc.Close()
				return fmt.Errorf("encoding contention %d: %w", i, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadJSONLZstd decodes a trace written by WriteJSONLZstd.
func ReadJSONLZstd(r io.Reader) (*SimulationTrace, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	st := NewSimulationTrace(TraceConfig{Level: TraceLevelTransitions})
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var line exportLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			return nil, fmt.Errorf("decoding trace line: %w", err)
		}
		if line.Label != "" {
			st.Config.Label = line.Label
		}
		switch {
		case line.Type == "transition" && line.Transition != nil:
			st.RecordTransition(*line.Transition)
		case line.Type == "contention" && line.Contention != nil:
			st.RecordContention(*line.Contention)
		default:
			return nil, fmt.Errorf("unknown trace line type %q", line.Type)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return st, nil
}
