package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunMutuallyExclusiveFlagsRejected(t *testing.T) {
	code := run([]string{"--text", "1 + 1 :", "--repl"})
	if code != 2 {
		t.Fatalf("run() = %d, want 2 for conflicting flags", code)
	}
}

func TestRunTextExecutesAndReturnsZero(t *testing.T) {
	code := run([]string{"--text", "let a = 2 ** 10 : a + 1 :"})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRunTextReportsRuntimeErrorExitCode(t *testing.T) {
	code := run([]string{"-t", "1 / 0 :"})
	if code != 1 {
		t.Fatalf("run() = %d, want 1 for a runtime error", code)
	}
}

func TestRunSourceFileMissingReturnsFailure(t *testing.T) {
	code := run([]string{"--run", filepath.Join(t.TempDir(), "does-not-exist.calc")})
	if code != 1 {
		t.Fatalf("run() = %d, want 1 for a missing file", code)
	}
}

func TestWriteBinaryThenShowInstructions(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.calc")
	if err := os.WriteFile(src, []byte("let a = 1 + 2 : a :"), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run([]string{"--write-binary", src}); code != 0 {
		t.Fatalf("write-binary run() = %d, want 0", code)
	}
	if _, err := os.Stat(binSibling(src)); err != nil {
		t.Fatalf("expected .bin sibling to be written: %v", err)
	}

	if code := run([]string{"--show-instructions", src}); code != 0 {
		t.Fatalf("show-instructions run() = %d, want 0", code)
	}
}

func TestShowParsedFileSucceeds(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.calc")
	if err := os.WriteFile(src, []byte("let a = 1 :"), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run([]string{"--show-parsed", src}); code != 0 {
		t.Fatalf("show-parsed run() = %d, want 0", code)
	}
}

func TestBinSibling(t *testing.T) {
	got := binSibling("/tmp/foo.calc")
	want := "/tmp/foo.bin"
	if got != want {
		t.Fatalf("binSibling() = %q, want %q", got, want)
	}
}
