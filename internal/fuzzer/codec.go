package fuzzer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Operations serialize as their parameter fields plus an injected "type"
// tag, and deserialize in two phases: read the tag, then unmarshal into the
// matching concrete type. Round-tripping a test reproduces the exact
// operation sequence, never re-rolling any randomness.

type rawOperation struct {
	Type string `json:"type"`
}

// MarshalOperationsJSON serializes an operation sequence.
func MarshalOperationsJSON(ops []Operation) ([]byte, error) {
	wrapped := make([]json.RawMessage, len(ops))
	for i, op := range ops {
		data, err := json.Marshal(op)
		if err != nil {
			return nil, fmt.Errorf("marshal operation %d: %w", i, err)
		}

		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal operation %d for tag injection: %w", i, err)
		}
		m["type"] = op.Kind().Tag()

		data, err = json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("remarshal operation %d: %w", i, err)
		}
		wrapped[i] = data
	}
	return json.Marshal(wrapped)
}

// UnmarshalOperationsJSON deserializes a JSON array into typed operations.
func UnmarshalOperationsJSON(data []byte) ([]Operation, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("unmarshal operations array: %w", err)
	}

	ops := make([]Operation, len(raws))
	for i, raw := range raws {
		op, err := unmarshalOperation(raw)
		if err != nil {
			return nil, fmt.Errorf("unmarshal operation %d: %w", i, err)
		}
		ops[i] = op
	}
	return ops, nil
}

func unmarshalOperation(data []byte) (Operation, error) {
	var r rawOperation
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal type tag: %w", err)
	}

	op := operationForTag(r.Type)
	if op == nil {
		return nil, fmt.Errorf("unknown operation type %q", r.Type)
	}
	if err := json.Unmarshal(data, op); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", r.Type, err)
	}
	return op, nil
}

func operationForTag(tag string) Operation {
	switch tag {
	case OpAddDockWidget.Tag():
		return &AddDockWidgetOp{}
	case OpCloseDockWidget.Tag():
		return &CloseDockWidgetOp{}
	case OpShowDockWidget.Tag():
		return &ShowDockWidgetOp{}
	case OpHideDockWidget.Tag():
		return &HideDockWidgetOp{}
	case OpFloatDockWidget.Tag():
		return &FloatDockWidgetOp{}
	case OpDockDockWidget.Tag():
		return &DockDockWidgetOp{}
	case OpResizeDockWidget.Tag():
		return &ResizeDockWidgetOp{}
	case OpMoveFloatingWindow.Tag():
		return &MoveFloatingWindowOp{}
	case OpCloseMainWindow.Tag():
		return &CloseMainWindowOp{}
	case OpSaveLayout.Tag():
		return &SaveLayoutOp{}
	case OpRestoreLayout.Tag():
		return &RestoreLayoutOp{}
	case OpDumpState.Tag():
		return &DumpStateOp{}
	default:
		return nil
	}
}

type testDocument struct {
	Layout     Layout          `json:"initialLayout"`
	Operations json.RawMessage `json:"operations"`
}

// MarshalJSON serializes the test with its operations tagged by kind.
func (t *Test) MarshalJSON() ([]byte, error) {
	ops, err := MarshalOperationsJSON(t.Operations)
	if err != nil {
		return nil, err
	}
	return json.Marshal(testDocument{Layout: t.Layout, Operations: ops})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *Test) UnmarshalJSON(data []byte) error {
	var doc testDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	ops, err := UnmarshalOperationsJSON(doc.Operations)
	if err != nil {
		return err
	}
	t.Layout = doc.Layout
	t.Operations = ops
	return nil
}

// DumpToFile writes the test to a JSON file for later replay.
func (t *Test) DumpToFile(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal test: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write test dump: %w", err)
	}
	return nil
}

// LoadTestFile reads a previously dumped test.
func LoadTestFile(path string) (*Test, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test file: %w", err)
	}
	var t Test
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse test file %s: %w", path, err)
	}
	return &t, nil
}
