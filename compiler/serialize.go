package compiler

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"vm-calc/ir"
)

// Serialize produces a self-describing persisted-bytecode blob for
// instrs. The on-disk format is unspecified by the language design (only
// the write-then-read round trip is contractual), so this uses
// encoding/gob directly over []ir.Instruction rather than nilan's
// hand-rolled hex-dump-of-raw-opcode-bytes format: gob already guarantees
// the round trip this component needs, and introducing a bespoke binary
// layout here would buy nothing beyond what nilan's own DumpBytecode
// format does less safely (it diassembles instructions as human-readable
// text, it does not actually deserialize them back into a runnable form).
func Serialize(instrs []ir.Instruction) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(instrs); err != nil {
		return nil, fmt.Errorf("compiler: serialize bytecode: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize is Serialize's inverse.
func Deserialize(data []byte) ([]ir.Instruction, error) {
	var instrs []ir.Instruction
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&instrs); err != nil {
		return nil, fmt.Errorf("compiler: deserialize bytecode: %w", err)
	}
	return instrs, nil
}

// WriteFile serializes instrs and writes them to path.
func WriteFile(path string, instrs []ir.Instruction) error {
	data, err := Serialize(instrs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads and deserializes a persisted-bytecode file.
func ReadFile(path string) ([]ir.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: read %s: %w", path, err)
	}
	return Deserialize(data)
}
