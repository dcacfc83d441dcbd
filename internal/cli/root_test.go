package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errw bytes.Buffer
	code := Run(args, &out, &errw)
	return code, out.String(), errw.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExitCodeIdentical(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "same\n")
	writeFile(t, b, "same\n")

	code, out, errw := runCLI(t, a, b)
	if code != 0 {
		t.Errorf("exit code = %d, want 0 (stderr %q)", code, errw)
	}
	if out != "" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestExitCodeDifferent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "one\n")
	writeFile(t, b, "two\n")

	code, out, _ := runCLI(t, a, b)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	want := "1c1\n< one\n---\n> two\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestExitCodeTrouble(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	writeFile(t, a, "content\n")

	code, _, errw := runCLI(t, a, filepath.Join(dir, "missing"))
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(errw, "missing") {
		t.Errorf("stderr = %q", errw)
	}
}

func TestMissingOperandIsFatal(t *testing.T) {
	code, _, errw := runCLI(t, "lonely")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(errw, "missing operand") {
		t.Errorf("stderr = %q", errw)
	}
}

func TestExtraOperandIsFatal(t *testing.T) {
	code, _, errw := runCLI(t, "a", "b", "c")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(errw, "extra operand 'c'") {
		t.Errorf("stderr = %q", errw)
	}
}

func TestConflictingStylesAreFatal(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "x\n")
	writeFile(t, b, "x\n")

	code, _, errw := runCLI(t, "-u", "-c", a, b)
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(errw, "conflicting") {
		t.Errorf("stderr = %q", errw)
	}
}

func TestUnifiedFlag(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "one\ntwo\nthree\n")
	writeFile(t, b, "one\n2\nthree\n")

	code, out, _ := runCLI(t, "-u", "--label", "left", "--label", "right", a, b)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(out, "--- left\n+++ right\n@@ ") {
		t.Errorf("output = %q", out)
	}
}

func TestLabelShorthand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "one\n")
	writeFile(t, b, "two\n")

	code, out, _ := runCLI(t, "-u", "-L", "left", "-L", "right", a, b)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(out, "--- left\n+++ right\n") {
		t.Errorf("output = %q", out)
	}
}

func TestFromFileComparesAgainstEach(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base")
	same := filepath.Join(dir, "same")
	diff := filepath.Join(dir, "diff")
	writeFile(t, base, "x\n")
	writeFile(t, same, "x\n")
	writeFile(t, diff, "y\n")

	code, _, _ := runCLI(t, "--from-file", base, same, diff)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	code, _, _ = runCLI(t, "--from-file", base, same)
	if code != 0 {
		t.Errorf("identical only: exit code = %d, want 0", code)
	}
}

func TestFromFileAndToFileConflict(t *testing.T) {
	code, _, errw := runCLI(t, "--from-file", "a", "--to-file", "b", "c")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(errw, "--from-file and --to-file") {
		t.Errorf("stderr = %q", errw)
	}
}

func TestLegacyContextDigits(t *testing.T) {
	oContext, args := extractLegacyContext([]string{"-5", "a", "b"})
	if oContext != 5 {
		t.Errorf("context = %d, want 5", oContext)
	}
	if len(args) != 2 || args[0] != "a" {
		t.Errorf("args = %v", args)
	}

	// Operands after "--" keep their dashes.
	oContext, args = extractLegacyContext([]string{"--", "-5"})
	if oContext != -1 {
		t.Errorf("context = %d, want -1", oContext)
	}
	if len(args) != 2 || args[1] != "-5" {
		t.Errorf("args = %v", args)
	}
}

func TestBuildPairs(t *testing.T) {
	pairs, err := buildPairs(&CompareFlags{}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("two operands: %v", err)
	}
	if len(pairs) != 1 || pairs[0] != [2]string{"a", "b"} {
		t.Errorf("pairs = %v", pairs)
	}

	pairs, err = buildPairs(&CompareFlags{ToFile: "t"}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("to-file: %v", err)
	}
	if len(pairs) != 2 || pairs[0] != [2]string{"a", "t"} || pairs[1] != [2]string{"b", "t"} {
		t.Errorf("pairs = %v", pairs)
	}

	if _, err := buildPairs(&CompareFlags{FromFile: "f"}, nil); err == nil {
		t.Error("from-file without operands must fail")
	}
}

func TestRecursiveFlagEndToEnd(t *testing.T) {
	dir0 := t.TempDir()
	dir1 := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir0, "sub"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir1, "sub"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(dir0, "sub", "f"), "a\n")
	writeFile(t, filepath.Join(dir1, "sub", "f"), "b\n")

	code, out, _ := runCLI(t, "-r", dir0, dir1)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "diff ") && !strings.Contains(out, "1c1") {
		t.Errorf("output = %q", out)
	}
}

func TestLogFileWritten(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	logPath := filepath.Join(dir, "run.log")
	writeFile(t, a, "same\n")
	writeFile(t, b, "same\n")

	code, _, _ := runCLI(t, "--log-file", logPath, "--log-format", "json", a, b)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "run_id") {
		t.Error("log entries lack a run identifier")
	}
	if !strings.Contains(string(data), "comparison finished") {
		t.Error("completion entry missing")
	}
}
