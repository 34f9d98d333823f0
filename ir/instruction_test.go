package ir

import "testing"

func TestOpcodeString(t *testing.T) {
	if Load.String() != "Load" {
		t.Errorf("got %s", Load.String())
	}
	if Opcode(999).String() != "Unknown" {
		t.Errorf("expected Unknown for out-of-range opcode")
	}
}
