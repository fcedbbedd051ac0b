package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/flangbuild/flangbuild/sysinfo"
)

// Environment variables consulted when the corresponding flag is absent.
// Precedence is always flag > environment > computed default.
const (
	EnvBuildType  = "BUILD_TYPE"
	EnvJobs       = "JOBS"
	EnvRootDir    = "ROOT_DIR"
	EnvInstallDir = "INSTALL_DIR"
	EnvMemLimit   = "MEMLIMIT"
)

const defaultTargets = "X86;AArch64"

// normalizeCMakeArgs puts every passthrough option into -DNAME=VALUE form:
// "--cmake-arg FOO=ON" and "-DFOO=ON" both reach cmake identically.
func normalizeCMakeArgs(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		if strings.HasPrefix(a, "-D") {
			out[i] = a
		} else {
			out[i] = "-D" + a
		}
	}
	return out
}

// Resolve combines parsed options, environment overrides and host-derived
// defaults into the final immutable Config. getenv is injectable so the
// precedence rules can be tested without touching the real environment.
func Resolve(o *Options, host sysinfo.Host, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	c := &Config{
		Assertions:     !o.NoAssertions,
		Werror:         !o.NoWerror,
		Quadmath:       !o.NoQuadmath,
		Offload:        o.Offload,
		Clean:          o.Clean,
		Clone:          o.Clone,
		RunTests:       o.RunTests,
		InstallOnly:    o.InstallOnly,
		BuildOnly:      o.BuildOnly,
		ShowConfigure:  o.ShowConfigure,
		AssumeYes:      o.Yes,
		ExtraCMakeArgs: normalizeCMakeArgs(o.CMakeArgs),
	}

	var errs error

	bt := o.BuildType
	if !o.Changed("build-type") {
		if env := getenv(EnvBuildType); env != "" {
			bt = env
		} else {
			bt = string(Release)
		}
	}
	typ, err := ParseBuildType(bt)
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	c.BuildType = typ

	c.Jobs = o.Jobs
	if !o.Changed("jobs") {
		if env := getenv(EnvJobs); env != "" {
			n, err := strconv.Atoi(env)
			if err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "invalid %s", EnvJobs))
			}
			c.Jobs = n
		} else {
			c.Jobs = DefaultJobs(host.CPUs)
		}
	}
	if c.Jobs < 1 {
		errs = multierr.Append(errs, errors.Errorf("job count must be positive, got %d", c.Jobs))
	}

	c.MemoryMB = o.MemoryMB
	if !o.Changed("memory") {
		if env := getenv(EnvMemLimit); env != "" {
			n, err := strconv.ParseUint(env, 10, 64)
			if err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "invalid %s", EnvMemLimit))
			}
			c.MemoryMB = n
		} else {
			c.MemoryMB = DefaultMemoryMB(host.MemTotalKB)
		}
	}
	if c.MemoryMB == 0 {
		errs = multierr.Append(errs, errors.New("memory ceiling must be positive (set --memory or MEMLIMIT)"))
	}

	root := o.Root
	if !o.Changed("root") {
		if env := getenv(EnvRootDir); env != "" {
			root = env
		} else if wd, err := os.Getwd(); err == nil {
			root = wd
		} else {
			errs = multierr.Append(errs, errors.Wrap(err, "cannot determine root directory"))
		}
	}
	c.RootDir = root
	c.SourceDir = filepath.Join(root, "llvm-project")
	c.BuildDir = filepath.Join(root, "build")

	c.InstallDir = o.Prefix
	if !o.Changed("prefix") {
		if env := getenv(EnvInstallDir); env != "" {
			c.InstallDir = env
		} else {
			c.InstallDir = filepath.Join(root, "install")
		}
	}

	c.Targets = o.Targets
	if !o.Changed("targets") {
		c.Targets = defaultTargets
	}
	if c.Targets == "" {
		errs = multierr.Append(errs, errors.New("target list must not be empty"))
	}

	if errs != nil {
		return nil, errs
	}
	return c, nil
}
