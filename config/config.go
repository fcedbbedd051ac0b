// Package config holds the resolved build configuration for one flangbuild
// invocation. A Config is built exactly once, by Resolve, from command-line
// options, environment overrides and computed defaults, and is never mutated
// afterwards.
package config

import (
	"fmt"

	"github.com/pkg/errors"
)

// BuildType is the CMake build type passed to the configure step.
type BuildType string

const (
	Release        BuildType = "Release"
	Debug          BuildType = "Debug"
	RelWithDebInfo BuildType = "RelWithDebInfo"
	MinSizeRel     BuildType = "MinSizeRel"
)

// ParseBuildType validates s against the known CMake build types.
func ParseBuildType(s string) (BuildType, error) {
	switch BuildType(s) {
	case Release, Debug, RelWithDebInfo, MinSizeRel:
		return BuildType(s), nil
	}
	return "", errors.Errorf("invalid build type %q (expected Release, Debug, RelWithDebInfo or MinSizeRel)", s)
}

// Job count defaults are derived from the logical CPU count, clamped so a
// small box still gets one job and a huge box does not oversubscribe ninja.
const (
	MinJobs = 1
	MaxJobs = 64
)

// DefaultJobs returns the default parallel job count for cpus logical CPUs.
func DefaultJobs(cpus int) int {
	j := cpus / 4
	if j < MinJobs {
		return MinJobs
	}
	if j > MaxJobs {
		return MaxJobs
	}
	return j
}

// DefaultMemoryMB returns the default build memory ceiling in megabytes:
// half of the total system memory, given in kilobytes.
func DefaultMemoryMB(totalKB uint64) uint64 {
	return totalKB / 2 / 1024
}

// Config is the immutable configuration of one build run.
type Config struct {
	BuildType BuildType
	Jobs      int
	MemoryMB  uint64 // ceiling for the ninja invocation

	RootDir    string // everything lives under here
	SourceDir  string // <root>/llvm-project
	BuildDir   string // <root>/build
	InstallDir string

	Assertions bool // LLVM_ENABLE_ASSERTIONS
	Werror     bool // FLANG_ENABLE_WERROR
	Quadmath   bool // allow FLANG_RUNTIME_F128_MATH_LIB if the probe succeeds
	Offload    bool

	Clean         bool
	Clone         bool
	RunTests      bool
	InstallOnly   bool
	BuildOnly     bool
	ShowConfigure bool
	AssumeYes     bool

	Targets        string   // semicolon-joined LLVM target list
	ExtraCMakeArgs []string // passthrough -D options, appended last
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{%s j%d %dMB %s}", c.BuildType, c.Jobs, c.MemoryMB, c.RootDir)
}
