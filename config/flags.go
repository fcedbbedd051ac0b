package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
)

// Options is the raw result of command-line parsing, before environment
// overrides and computed defaults are applied by Resolve.
type Options struct {
	Jobs      int
	BuildType string
	Root      string
	Prefix    string
	MemoryMB  uint64

	Clean        bool
	Clone        bool
	NoAssertions bool
	NoWerror     bool
	NoQuadmath   bool
	Offload      bool

	Targets       string
	CMakeArgs     []string
	ShowConfigure bool
	RunTests      bool
	InstallOnly   bool
	BuildOnly     bool
	Yes           bool
	Help          bool

	// NoArgs records that the command line was empty; used only to print a
	// hint, never to block execution.
	NoArgs bool

	fs *flag.FlagSet
}

// Changed reports whether the named flag was given explicitly, which is what
// gives flags precedence over environment variables and computed defaults.
func (o *Options) Changed(name string) bool {
	return o.fs != nil && o.fs.Changed(name)
}

// FlagUsages returns the formatted option list for the usage text.
func (o *Options) FlagUsages() string {
	return o.fs.FlagUsages()
}

func newFlagSet(o *Options) *flag.FlagSet {
	fs := flag.NewFlagSet("flangbuild", flag.ContinueOnError)
	fs.SetOutput(ioutil.Discard) // errors are reported by the caller
	fs.SortFlags = false

	fs.BoolVarP(&o.Help, "help", "h", false, "show this help and exit")
	fs.IntVarP(&o.Jobs, "jobs", "j", 0, "parallel ninja jobs (default: CPUs/4, clamped to [1,64])")
	fs.StringVarP(&o.BuildType, "build-type", "t", "", "CMake build type: Release, Debug, RelWithDebInfo, MinSizeRel")
	fs.StringVarP(&o.Root, "root", "r", "", "root directory holding source and build trees (default: cwd)")
	fs.StringVarP(&o.Prefix, "prefix", "p", "", "installation prefix (default: <root>/install)")
	fs.Uint64VarP(&o.MemoryMB, "memory", "m", 0, "build memory ceiling in MB (default: half of system memory)")
	fs.BoolVarP(&o.Clean, "clean", "c", false, "wipe build and install directories first")
	fs.BoolVarP(&o.Clone, "clone", "g", false, "clone the source tree, or update it if already present")
	fs.BoolVarP(&o.NoAssertions, "no-assertions", "n", false, "build without LLVM assertions")
	fs.BoolVarP(&o.NoWerror, "no-werror", "w", false, "do not treat compiler warnings as errors")
	fs.BoolVarP(&o.NoQuadmath, "no-quadmath", "q", false, "disable 128-bit float math support")
	fs.BoolVarP(&o.Offload, "offload", "f", false, "enable OpenMP device offload support")
	fs.StringVarP(&o.Targets, "targets", "a", "", "semicolon-joined LLVM target list (default: X86;AArch64)")
	fs.StringArrayVarP(&o.CMakeArgs, "cmake-arg", "D", nil, "extra -D option passed through to cmake (repeatable)")
	fs.BoolVarP(&o.ShowConfigure, "show-configure", "s", false, "print the assembled cmake command before running it")
	fs.BoolVarP(&o.RunTests, "test", "T", false, "run check-flang and check-flang-rt after building")
	fs.BoolVarP(&o.InstallOnly, "install-only", "I", false, "skip straight to the install step (assumes a prior build)")
	fs.BoolVarP(&o.BuildOnly, "build-only", "B", false, "stop after the ninja build (no tests, no install)")
	fs.BoolVarP(&o.Yes, "yes", "y", false, "assume yes at every confirmation prompt")

	return fs
}

// ParseArgs parses the command line. Unknown flags and stray positional
// tokens are errors naming the offending token.
func ParseArgs(args []string) (*Options, error) {
	o := &Options{NoArgs: len(args) == 0}
	o.fs = newFlagSet(o)
	if err := o.fs.Parse(args); err != nil {
		return nil, err
	}
	if o.fs.NArg() > 0 {
		return nil, errors.Errorf("unknown argument: %q", o.fs.Arg(0))
	}
	return o, nil
}
