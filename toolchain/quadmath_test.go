package toolchain

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/flangbuild/flangbuild/shellcmd"
)

func withIncludeDirs(t *testing.T, dirs []string) {
	t.Helper()
	saved := quadmathIncludeDirs
	quadmathIncludeDirs = dirs
	t.Cleanup(func() { quadmathIncludeDirs = saved })
}

func TestProbeQuadmathHeaderFound(t *testing.T) {
	dir, err := ioutil.TempDir("", "quadmath-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	if err := ioutil.WriteFile(filepath.Join(dir, "quadmath.h"), []byte("/* stub */\n"), 0644); err != nil {
		t.Fatal(err)
	}
	withIncludeDirs(t, []string{"/nonexistent", dir})

	rec := &shellcmd.Recorder{}
	d := &Detector{Exec: rec}
	d.init()
	include, ok := d.probeQuadmath("clang")
	if !ok {
		t.Fatal("probe: want success when header exists and compile passes")
	}
	if expect, got := dir, include; expect != got {
		t.Errorf("include dir: want %q, got %q", expect, got)
	}
	if expect, got := 1, len(rec.Commands); expect != got {
		t.Fatalf("trial compiles: want %d, got %d", expect, got)
	}
	cc := rec.Commands[0]
	if expect, got := "clang", cc.Path; expect != got {
		t.Errorf("trial compiler: want %q, got %q", expect, got)
	}
	found := false
	for _, a := range cc.Args {
		if a == "-lquadmath" {
			found = true
		}
	}
	if !found {
		t.Errorf("trial compile must link -lquadmath, got %v", cc.Args)
	}
}

func TestProbeQuadmathHeaderMissing(t *testing.T) {
	withIncludeDirs(t, []string{"/nonexistent"})
	rec := &shellcmd.Recorder{}
	d := &Detector{Exec: rec}
	d.init()
	if _, ok := d.probeQuadmath("clang"); ok {
		t.Error("probe: want failure when no header is found")
	}
	if len(rec.Commands) != 0 {
		t.Errorf("no trial compile expected without a header, got %v", rec.Lines())
	}
}

func TestProbeQuadmathCompileFails(t *testing.T) {
	dir, err := ioutil.TempDir("", "quadmath-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	if err := ioutil.WriteFile(filepath.Join(dir, "quadmath.h"), []byte("/* stub */\n"), 0644); err != nil {
		t.Fatal(err)
	}
	withIncludeDirs(t, []string{dir})

	rec := &shellcmd.Recorder{
		Fail: func(shellcmd.Command) error { return errors.New("ld: cannot find -lquadmath") },
	}
	d := &Detector{Exec: rec}
	d.init()
	if _, ok := d.probeQuadmath("clang"); ok {
		t.Error("probe: want failure when the trial compile fails")
	}
}

func TestDetectQuadmathFailureNeedsConfirmation(t *testing.T) {
	withIncludeDirs(t, []string{"/nonexistent"})
	asked := false
	d := &Detector{
		Getenv:       noEnv,
		LookPath:     lookPathIn("clang", "clang++", "lld", "ccache"),
		Exec:         &shellcmd.Recorder{},
		WantQuadmath: true,
		Confirm: func(q string) (bool, error) {
			asked = true
			if !strings.Contains(q, "128-bit") {
				t.Errorf("unexpected question: %q", q)
			}
			return true, nil
		},
	}
	tc, err := d.Detect()
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !asked {
		t.Error("failed probe must ask for confirmation")
	}
	if tc.Quadmath {
		t.Error("Quadmath: want false after failed probe")
	}
}

func TestDetectQuadmathDisabledSkipsProbe(t *testing.T) {
	withIncludeDirs(t, []string{"/nonexistent"})
	d := &Detector{
		Getenv:       noEnv,
		LookPath:     lookPathIn("clang", "clang++", "lld", "ccache"),
		Exec:         &shellcmd.Recorder{},
		WantQuadmath: false,
		Confirm: func(string) (bool, error) {
			t.Fatal("no prompt expected when quadmath is disabled")
			return false, nil
		},
	}
	tc, err := d.Detect()
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if tc.Quadmath {
		t.Error("Quadmath: want false when disabled")
	}
}
