package compare

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/diffnorris/pkg/config"
	"github.com/sdejongh/diffnorris/pkg/output"
)

// fakeDiffer stands in for the content differ: it compares raw bytes
// and counts how many times the engine reached it.
type fakeDiffer struct {
	q     *output.Queue
	calls int
}

func (d *fakeDiffer) Diff(cmp *Comparison) Verdict {
	d.calls++

	read := func(s *Slot) []byte {
		if s.State == StateNonexistent || s.File == nil {
			return nil
		}
		data, _ := io.ReadAll(s.File)
		return data
	}

	data0 := read(&cmp.Slot[0])
	var data1 []byte
	if cmp.Slot[1].File != nil && cmp.Slot[1].File == cmp.Slot[0].File {
		data1 = data0
	} else {
		data1 = read(&cmp.Slot[1])
	}

	if bytes.Equal(data0, data1) {
		return Success
	}
	d.q.Message("Files %s and %s differ\n", cmp.Slot[0].Name, cmp.Slot[1].Name)
	return Different
}

type fixture struct {
	out    bytes.Buffer
	errw   bytes.Buffer
	q      *output.Queue
	differ *fakeDiffer
	engine *Engine
}

func newFixture(t *testing.T, adjust func(*config.Builder)) *fixture {
	t.Helper()

	b := config.NewBuilder()
	if adjust != nil {
		adjust(b)
	}
	cfg, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	fx := &fixture{}
	fx.q = output.NewQueue(&fx.out, &fx.errw, "diffnorris")
	fx.differ = &fakeDiffer{q: fx.q}
	fx.engine = New(cfg, fx.differ, fx.q, nil)
	return fx
}

func (fx *fixture) run(t *testing.T, name0, name1 string) Verdict {
	t.Helper()
	verdict, err := fx.engine.Compare(name0, name1)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := fx.q.Drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}
	return verdict
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestIdenticalRegularFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "same\n")
	writeFile(t, b, "same\n")

	fx := newFixture(t, nil)
	if v := fx.run(t, a, b); v != Success {
		t.Errorf("verdict = %v, want Success", v)
	}
	if fx.differ.calls != 1 {
		t.Errorf("differ calls = %d, want 1", fx.differ.calls)
	}
	if fx.out.Len() != 0 {
		t.Errorf("unexpected output: %q", fx.out.String())
	}
}

func TestSameNameShortCircuits(t *testing.T) {
	a := filepath.Join(t.TempDir(), "a")
	writeFile(t, a, "content\n")

	fx := newFixture(t, nil)
	if v := fx.run(t, a, a); v != Success {
		t.Errorf("verdict = %v, want Success", v)
	}
	if fx.differ.calls != 0 {
		t.Errorf("differ called %d times on one physical file", fx.differ.calls)
	}
}

func TestSameFileStillReadWhenOutputWanted(t *testing.T) {
	// Side-by-side prints common lines, so the short circuit must not
	// apply even when both names reach one file.
	a := filepath.Join(t.TempDir(), "a")
	writeFile(t, a, "content\n")

	fx := newFixture(t, func(b *config.Builder) {
		b.SetStyle(config.StyleSideBySide)
	})
	if v := fx.run(t, a, a); v != Success {
		t.Errorf("verdict = %v, want Success", v)
	}
	if fx.differ.calls != 1 {
		t.Errorf("differ calls = %d, want 1", fx.differ.calls)
	}
}

func TestMissingOperandIsTrouble(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	writeFile(t, a, "content\n")
	missing := filepath.Join(dir, "missing")

	fx := newFixture(t, nil)
	if v := fx.run(t, a, missing); v != Trouble {
		t.Errorf("verdict = %v, want Trouble", v)
	}
	if !strings.Contains(fx.errw.String(), "missing") {
		t.Errorf("stderr lacks failing name: %q", fx.errw.String())
	}
	if fx.differ.calls != 0 {
		t.Error("differ called despite unresolved operand")
	}
}

func TestEmptyOperandReportsStatFailure(t *testing.T) {
	// "" names nothing statable; it must fail like any other bad
	// operand instead of being mistaken for an absent directory child.
	a := filepath.Join(t.TempDir(), "a")
	writeFile(t, a, "content\n")

	fx := newFixture(t, nil)
	if v := fx.run(t, "", a); v != Trouble {
		t.Errorf("empty first operand: verdict = %v, want Trouble", v)
	}
	if fx.differ.calls != 0 {
		t.Error("differ called despite unresolved operand")
	}
	if fx.errw.Len() == 0 {
		t.Error("stat failure not reported")
	}

	fx = newFixture(t, nil)
	if v := fx.run(t, a, ""); v != Trouble {
		t.Errorf("empty second operand: verdict = %v, want Trouble", v)
	}
}

func TestNewFileTreatsMissingAsEmpty(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	writeFile(t, a, "content\n")
	missing := filepath.Join(dir, "missing")

	fx := newFixture(t, func(b *config.Builder) {
		b.Set(func(c *config.Config) { c.NewFile = true })
	})
	if v := fx.run(t, a, missing); v != Different {
		t.Errorf("verdict = %v, want Different", v)
	}
	if fx.differ.calls != 1 {
		t.Errorf("differ calls = %d, want 1", fx.differ.calls)
	}
	if fx.errw.Len() != 0 {
		t.Errorf("unexpected stderr: %q", fx.errw.String())
	}
}

func TestUnidirectionalNewFileIsOneWay(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	writeFile(t, a, "content\n")
	missing := filepath.Join(dir, "missing")

	// A missing first operand is covered.
	fx := newFixture(t, func(b *config.Builder) {
		b.Set(func(c *config.Config) { c.UnidirectionalNewFile = true })
	})
	if v := fx.run(t, missing, a); v != Different {
		t.Errorf("missing first: verdict = %v, want Different", v)
	}

	// A missing second operand is not.
	fx = newFixture(t, func(b *config.Builder) {
		b.Set(func(c *config.Config) { c.UnidirectionalNewFile = true })
	})
	if v := fx.run(t, a, missing); v != Trouble {
		t.Errorf("missing second: verdict = %v, want Trouble", v)
	}
}

func TestPlaceholderFilesCompareAsAbsent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "")
	writeFile(t, b, "")
	if err := os.Chmod(a, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if err := os.Chmod(b, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	fx := newFixture(t, func(bld *config.Builder) {
		bld.Set(func(c *config.Config) { c.NewFile = true })
	})
	if v := fx.run(t, a, b); v != Success {
		t.Errorf("verdict = %v, want Success", v)
	}
	if fx.differ.calls != 0 {
		t.Error("differ called for two absent sides")
	}
	if fx.out.Len() != 0 || fx.errw.Len() != 0 {
		t.Errorf("unexpected output: %q %q", fx.out.String(), fx.errw.String())
	}
}

func TestSymlinksComparedByTarget(t *testing.T) {
	dir := t.TempDir()
	l1 := filepath.Join(dir, "l1")
	l2 := filepath.Join(dir, "l2")
	l3 := filepath.Join(dir, "l3")
	if err := os.Symlink("target", l1); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink("target", l2); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink("elsewhere", l3); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	noDeref := func(b *config.Builder) {
		b.Set(func(c *config.Config) { c.NoDereference = true })
	}

	fx := newFixture(t, noDeref)
	if v := fx.run(t, l1, l2); v != Success {
		t.Errorf("same target: verdict = %v, want Success", v)
	}

	fx = newFixture(t, noDeref)
	if v := fx.run(t, l1, l3); v != Different {
		t.Errorf("different target: verdict = %v, want Different", v)
	}
	if !strings.Contains(fx.out.String(), "Symbolic links") {
		t.Errorf("output = %q", fx.out.String())
	}
}

func TestRepeatedComparisonIsStable(t *testing.T) {
	// Classification reads but never mutates the pair, so running it
	// again must reach the same verdict.
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "one\n")
	writeFile(t, b, "two\n")

	fx := newFixture(t, nil)
	first := fx.run(t, a, b)
	second := fx.run(t, a, b)
	if first != Different || second != first {
		t.Errorf("verdicts = %v then %v, want Different twice", first, second)
	}

	writeFile(t, b, "one\n")
	fx = newFixture(t, nil)
	first = fx.run(t, a, b)
	second = fx.run(t, a, b)
	if first != Success || second != first {
		t.Errorf("verdicts = %v then %v, want Success twice", first, second)
	}
}

func TestSymlinkComparisonReflexiveAndSymmetric(t *testing.T) {
	dir := t.TempDir()
	l1 := filepath.Join(dir, "l1")
	l2 := filepath.Join(dir, "l2")
	if err := os.Symlink("target", l1); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink("elsewhere", l2); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	noDeref := func(b *config.Builder) {
		b.Set(func(c *config.Config) { c.NoDereference = true })
	}

	fx := newFixture(t, noDeref)
	if v := fx.run(t, l1, l1); v != Success {
		t.Errorf("link against itself: verdict = %v, want Success", v)
	}

	fx = newFixture(t, noDeref)
	forward := fx.run(t, l1, l2)
	fx = newFixture(t, noDeref)
	backward := fx.run(t, l2, l1)
	if forward != Different || backward != forward {
		t.Errorf("verdicts = %v and %v, want Different both ways", forward, backward)
	}
}

func TestSymlinkVersusRegularIsKindMismatch(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	file := filepath.Join(dir, "file")
	if err := os.Symlink("anywhere", link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	writeFile(t, file, "content\n")

	fx := newFixture(t, func(b *config.Builder) {
		b.Set(func(c *config.Config) { c.NoDereference = true })
	})
	if v := fx.run(t, link, file); v != Different {
		t.Errorf("verdict = %v, want Different", v)
	}
	want := "File " + link + " is a symbolic link while file " + file + " is a regular file\n"
	if fx.out.String() != want {
		t.Errorf("output = %q, want %q", fx.out.String(), want)
	}
}

func TestDirectoryVersusFileComparesSibling(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(sub, "name"), "content\n")
	file := filepath.Join(dir, "name")
	writeFile(t, file, "content\n")

	fx := newFixture(t, nil)
	if v := fx.run(t, sub, file); v != Success {
		t.Errorf("verdict = %v, want Success", v)
	}
	if fx.differ.calls != 1 {
		t.Errorf("differ calls = %d, want 1", fx.differ.calls)
	}
}

func TestStdinAgainstDirectoryIsFatal(t *testing.T) {
	dir := t.TempDir()

	fx := newFixture(t, nil)
	verdict, err := fx.engine.Compare("-", dir)
	if err == nil {
		t.Fatal("expected a fatal error")
	}
	if verdict != Trouble {
		t.Errorf("verdict = %v, want Trouble", verdict)
	}
}

func TestBriefSizeShortCircuit(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "short\n")
	writeFile(t, b, "rather longer\n")

	fx := newFixture(t, func(bld *config.Builder) {
		bld.Set(func(c *config.Config) { c.Brief = true })
	})
	if v := fx.run(t, a, b); v != Different {
		t.Errorf("verdict = %v, want Different", v)
	}
	if fx.differ.calls != 0 {
		t.Errorf("differ calls = %d, want 0 (sizes settle it)", fx.differ.calls)
	}
	want := "Files " + a + " and " + b + " differ\n"
	if fx.out.String() != want {
		t.Errorf("output = %q, want %q", fx.out.String(), want)
	}
}

func TestBriefEqualSizesStillRead(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "aaaa\n")
	writeFile(t, b, "bbbb\n")

	fx := newFixture(t, func(bld *config.Builder) {
		bld.Set(func(c *config.Config) { c.Brief = true })
	})
	if v := fx.run(t, a, b); v != Different {
		t.Errorf("verdict = %v, want Different", v)
	}
	if fx.differ.calls != 1 {
		t.Errorf("differ calls = %d, want 1", fx.differ.calls)
	}
}

func TestBriefZeroSizeFileStillRead(t *testing.T) {
	// An empty file may be a placeholder, so a size mismatch against
	// one never settles the verdict without reading.
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "")
	writeFile(t, b, "content\n")

	fx := newFixture(t, func(bld *config.Builder) {
		bld.Set(func(c *config.Config) { c.Brief = true })
	})
	if v := fx.run(t, a, b); v != Different {
		t.Errorf("verdict = %v, want Different", v)
	}
	if fx.differ.calls != 1 {
		t.Errorf("differ calls = %d, want 1 (zero size must force a read)", fx.differ.calls)
	}
}

func TestBriefSizeShortCircuitDisabledByPolicies(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "x\n")
	writeFile(t, b, "x  \n")

	fx := newFixture(t, func(bld *config.Builder) {
		bld.Set(func(c *config.Config) { c.Brief = true })
		bld.RequestWhitespace(config.IgnoreSpaceChange)
	})
	// The fake differ compares raw bytes, so only reaching it matters.
	fx.run(t, a, b)
	if fx.differ.calls != 1 {
		t.Errorf("differ calls = %d, want 1 (sizes must not settle it)", fx.differ.calls)
	}
}

func TestReportIdenticalFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "same\n")
	writeFile(t, b, "same\n")

	fx := newFixture(t, func(bld *config.Builder) {
		bld.Set(func(c *config.Config) { c.ReportIdentical = true })
	})
	if v := fx.run(t, a, b); v != Success {
		t.Errorf("verdict = %v, want Success", v)
	}
	want := "Files " + a + " and " + b + " are identical\n"
	if fx.out.String() != want {
		t.Errorf("output = %q, want %q", fx.out.String(), want)
	}
}

func TestIfdefRejectsDirectories(t *testing.T) {
	dir0 := t.TempDir()
	dir1 := t.TempDir()

	fx := newFixture(t, func(b *config.Builder) {
		b.SetIfdefName("GUARD")
	})
	verdict, err := fx.engine.Compare(dir0, dir1)
	if err == nil {
		t.Fatal("expected a fatal error")
	}
	if verdict != Trouble {
		t.Errorf("verdict = %v, want Trouble", verdict)
	}
}

func TestVerdictOrdering(t *testing.T) {
	if got := Success.Worse(Different); got != Different {
		t.Errorf("Success.Worse(Different) = %v", got)
	}
	if got := Different.Worse(Trouble); got != Trouble {
		t.Errorf("Different.Worse(Trouble) = %v", got)
	}
	if got := Trouble.Worse(Success); got != Trouble {
		t.Errorf("Trouble.Worse(Success) = %v", got)
	}
	if Success.ExitCode() != 0 || Different.ExitCode() != 1 || Trouble.ExitCode() != 2 {
		t.Error("exit codes must be 0, 1, 2")
	}
}
