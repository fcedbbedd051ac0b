// Package toolchain locates the host tools the build needs: C and C++
// compilers, a linker, an optional compiler cache, and the quadmath library
// used for 128-bit float support.
//
// Each tool has a preferred choice and a fallback. A fallback is only
// accepted after an explicit confirmation (auto-accepted under --yes),
// because building LLVM with gcc/gold is markedly slower than with
// clang/lld.
package toolchain

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/flangbuild/flangbuild/console"
	"github.com/flangbuild/flangbuild/shellcmd"
)

// Toolchain is the result of detection. CacheTool may be empty, meaning
// caching is skipped; a missing linker aborts detection, so Linker is always
// set in a Toolchain that Detect returned.
type Toolchain struct {
	CC        string
	CXX       string
	Linker    string // value for LLVM_USE_LINKER ("lld" or "gold")
	CacheTool string

	Quadmath        bool   // probe succeeded
	QuadmathInclude string // directory holding quadmath.h, if found
}

// Detector carries the injectable capabilities detection needs. Zero-value
// fields fall back to the real environment.
type Detector struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Exec     shellcmd.Executor // runs the quadmath trial compile

	AssumeYes    bool
	WantQuadmath bool

	Warnf   func(format string, args ...interface{})
	Notef   func(format string, args ...interface{})
	Confirm func(question string) (bool, error)
}

func (d *Detector) init() {
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
	if d.LookPath == nil {
		d.LookPath = exec.LookPath
	}
	if d.Exec == nil {
		d.Exec = shellcmd.System{}
	}
	if d.Warnf == nil {
		d.Warnf = func(string, ...interface{}) {}
	}
	if d.Notef == nil {
		d.Notef = func(string, ...interface{}) {}
	}
	if d.Confirm == nil {
		// Unanswerable questions default to no.
		d.Confirm = func(string) (bool, error) { return false, nil }
	}
}

// Detect resolves every tool, in order: C compiler, C++ compiler, linker,
// cache tool, then the quadmath probe.
func (d *Detector) Detect() (*Toolchain, error) {
	d.init()
	tc := &Toolchain{}

	var err error
	if tc.CC, err = d.compiler("C compiler", "CC", "clang", "gcc"); err != nil {
		return nil, err
	}
	if tc.CXX, err = d.compiler("C++ compiler", "CXX", "clang++", "g++"); err != nil {
		return nil, err
	}
	if tc.Linker, err = d.pick("linker", "lld", "gold",
		"gold links LLVM noticeably slower than lld"); err != nil {
		return nil, err
	}
	if tc.Linker == "" {
		return nil, errors.New("no usable linker found (tried lld, gold)")
	}
	if tc.CacheTool, err = d.pick("compiler cache", "ccache", "sccache",
		"sccache is less widely tested with LLVM builds than ccache"); err != nil {
		return nil, err
	}
	if tc.CacheTool == "" {
		d.Notef("no compiler cache found (tried ccache, sccache); rebuilds will be slow")
	}

	if d.WantQuadmath {
		tc.QuadmathInclude, tc.Quadmath = d.probeQuadmath(tc.CC)
		if !tc.Quadmath {
			d.Warnf("quadmath probe failed; REAL(16) intrinsics will be unavailable")
			ok, err := console.Decide(d.AssumeYes, func() (bool, error) {
				return d.Confirm("continue without 128-bit float support?")
			})
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, console.ErrAborted
			}
		}
	}
	return tc, nil
}

// compiler resolves a compiler, honouring an environment pin first. A pinned
// compiler that does not resolve to an executable is a hard error, never a
// fallback.
func (d *Detector) compiler(what, envVar, preferred, fallback string) (string, error) {
	if pinned := d.Getenv(envVar); pinned != "" {
		path, err := d.resolve(pinned)
		if err != nil {
			return "", errors.Wrapf(err, "%s is set to %q but it is not an executable", envVar, pinned)
		}
		return path, nil
	}
	tool, err := d.pick(what, preferred, fallback,
		fallback+" compiles LLVM noticeably slower than "+preferred)
	if err != nil {
		return "", err
	}
	if tool == "" {
		return "", errors.Errorf("no %s found (tried %s, %s)", what, preferred, fallback)
	}
	return tool, nil
}

// pick searches for preferred then fallback. Accepting the fallback requires
// confirmation; a missing tool is reported as empty and left to the caller,
// which is what keeps the linker required but the cache tool optional.
func (d *Detector) pick(what, preferred, fallback, tradeoff string) (string, error) {
	if _, err := d.LookPath(preferred); err == nil {
		return preferred, nil
	}
	if _, err := d.LookPath(fallback); err != nil {
		return "", nil
	}
	d.Warnf("%s not found, only %s is available: %s", preferred, fallback, tradeoff)
	ok, err := console.Decide(d.AssumeYes, func() (bool, error) {
		return d.Confirm("use " + fallback + " as the " + what + "?")
	})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", console.ErrAborted
	}
	return fallback, nil
}

// resolve accepts either a bare tool name (resolved via PATH) or a path,
// which must exist and be executable.
func (d *Detector) resolve(tool string) (string, error) {
	if path, err := d.LookPath(tool); err == nil {
		return path, nil
	}
	if err := unix.Access(tool, unix.X_OK); err != nil {
		return "", errors.Wrap(err, tool)
	}
	return tool, nil
}
