// Package scenario loads operation scripts for rawvec.Vector from YAML and
// replays them, recording size and capacity after every step.
//
// A script looks like:
//
//	name: insert-middle
//	reserve: 8
//	ops:
//	  - {op: push_back, value: 1}
//	  - {op: insert, pos: 0, value: 7}
//	  - {op: erase, pos: 1}
//	  - {op: pop_back}
//	  - {op: resize, n: 4}
//	  - {op: reserve, n: 32}
//	expect: [7, 0, 0, 0]
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Operation names accepted in scripts.
const (
	OpPushBack = "push_back"
	OpPopBack  = "pop_back"
	OpInsert   = "insert"
	OpErase    = "erase"
	OpReserve  = "reserve"
	OpResize   = "resize"
)

var (
	ErrMismatch  = errors.New("scenario: final contents differ from expect")
	ErrUnknownOp = errors.New("scenario: unknown op")
	ErrPosition  = errors.New("scenario: position out of range")
)

// Step is one scripted operation. Pos is used by insert and erase, Value
// by push_back and insert, N by reserve and resize.
type Step struct {
	Op    string `yaml:"op"`
	Pos   int    `yaml:"pos,omitempty"`
	Value int64  `yaml:"value,omitempty"`
	N     int    `yaml:"n,omitempty"`
}

// Scenario is a named script. Expect is checked only when present.
type Scenario struct {
	Name    string  `yaml:"name"`
	Reserve int     `yaml:"reserve,omitempty"`
	Ops     []Step  `yaml:"ops"`
	Expect  []int64 `yaml:"expect,omitempty"`
}

// Parse decodes a single scenario and rejects unknown fields and ops.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	for i, st := range s.Ops {
		switch st.Op {
		case OpPushBack, OpPopBack, OpInsert, OpErase, OpReserve, OpResize:
		default:
			return nil, fmt.Errorf("%w %q at step %d", ErrUnknownOp, st.Op, i)
		}
	}
	return &s, nil
}

// Load reads and parses the scenario stored at path. A missing name
// defaults to the path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
