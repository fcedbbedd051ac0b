// Package build runs the pipeline: acquire sources, clean, configure with
// cmake, build with ninja under a memory cap, optionally test, and install.
// Every stage delegates to external tools through a shellcmd.Executor; the
// pipeline itself is strictly sequential and fail-fast.
package build

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/flangbuild/flangbuild/config"
	"github.com/flangbuild/flangbuild/console"
	"github.com/flangbuild/flangbuild/shellcmd"
	"github.com/flangbuild/flangbuild/sysinfo"
	"github.com/flangbuild/flangbuild/toolchain"
)

const upstreamRepo = "https://github.com/llvm/llvm-project.git"

// versionMarker is written into <prefix>/bin after every successful install.
const (
	versionMarkerName    = "versionrc"
	versionMarkerContent = "latest\n"
)

// Pipeline drives one build run. All fields other than the function hooks
// are required; the hooks default to the real system when nil.
type Pipeline struct {
	Config *config.Config
	Tools  *toolchain.Toolchain
	Exec   shellcmd.Executor
	Con    *console.Console
	Host   sysinfo.Host

	LookPath func(string) (string, error)
	Getenv   func(string) string
	LoadAvg  func() (float64, error)
}

func (p *Pipeline) init() {
	if p.LookPath == nil {
		p.LookPath = exec.LookPath
	}
	if p.Getenv == nil {
		p.Getenv = os.Getenv
	}
	if p.LoadAvg == nil {
		p.LoadAvg = sysinfo.LoadAvg1
	}
}

// Run executes the pipeline. Install-only mode short-circuits everything
// except the install step. Build-only mode stops after the ninja build.
func (p *Pipeline) Run() error {
	p.init()
	if p.Config.InstallOnly {
		return p.install()
	}
	if err := p.acquire(); err != nil {
		return err
	}
	if p.Config.Clean {
		if err := p.clean(); err != nil {
			return err
		}
	}
	if err := p.prepareDirs(); err != nil {
		return err
	}
	if err := p.configure(); err != nil {
		return err
	}
	if err := p.build(); err != nil {
		return err
	}
	if p.Config.BuildOnly {
		return nil
	}
	if p.Config.RunTests {
		if err := p.test(); err != nil {
			return err
		}
	}
	return p.install()
}

// acquire clones or updates the source tree when requested, and otherwise
// just checks it is there. An update failure is tolerated (a stale tree
// still builds); a missing tree without --clone is not.
func (p *Pipeline) acquire() error {
	_, err := os.Stat(p.Config.SourceDir)
	exists := err == nil

	if !p.Config.Clone {
		if !exists {
			return errors.Errorf("source directory %s does not exist; rerun with --clone to fetch it", p.Config.SourceDir)
		}
		return nil
	}
	if exists {
		p.Con.Infof("updating %s", p.Config.SourceDir)
		pull := shellcmd.New("git", "-C", p.Config.SourceDir, "pull", "--rebase")
		if err := p.Exec.Run(pull); err != nil {
			p.Con.Warnf("source update failed, building the tree as-is: %v", err)
		}
		return nil
	}
	p.Con.Infof("cloning %s", upstreamRepo)
	return p.Exec.Run(shellcmd.New("git", "clone", upstreamRepo, p.Config.SourceDir))
}

func (p *Pipeline) clean() error {
	for _, dir := range []string{p.Config.BuildDir, p.Config.InstallDir} {
		if err := os.RemoveAll(dir); err != nil {
			return errors.Wrapf(err, "cleaning %s", dir)
		}
	}
	return nil
}

func (p *Pipeline) prepareDirs() error {
	for _, dir := range []string{p.Config.BuildDir, p.Config.InstallDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	return nil
}

func (p *Pipeline) configure() error {
	cmd := ConfigureCommand(p.Config, p.Tools, p.Getenv)
	if p.Config.ShowConfigure {
		p.Con.Printf("%s\n", cmd.Render())
	}
	return p.Exec.Run(cmd)
}

// build runs ninja with the resolved job count under a memory cap:
// systemd-run when it is operable, an advisory ulimit subshell otherwise.
func (p *Pipeline) build() error {
	if load, err := p.LoadAvg(); err == nil && p.Host.CPUs > 0 && load > float64(p.Host.CPUs) {
		p.Con.Warnf("system load %.1f already exceeds %d CPUs; the build will contend", load, p.Host.CPUs)
	}
	return p.Exec.Run(p.buildCommand())
}

func (p *Pipeline) buildCommand() shellcmd.Command {
	jobs := strconv.Itoa(p.Config.Jobs)
	if p.systemdRunUsable() {
		return shellcmd.New("systemd-run",
			"--scope", "--quiet",
			"-p", fmt.Sprintf("MemoryMax=%dM", p.Config.MemoryMB),
			"ninja", "-j", jobs,
		).In(p.Config.BuildDir)
	}
	script := fmt.Sprintf(
		"ulimit -v %d 2>/dev/null || echo 'flangbuild: warning: failed to apply advisory memory limit' >&2; exec ninja -j %s",
		p.Config.MemoryMB*1024, jobs)
	return shellcmd.New("sh", "-c", script).In(p.Config.BuildDir)
}

// systemdRunUsable probes that systemd-run can actually start a scope; being
// on PATH is not enough inside containers.
func (p *Pipeline) systemdRunUsable() bool {
	if _, err := p.LookPath("systemd-run"); err != nil {
		return false
	}
	probe := shellcmd.New("systemd-run", "--scope", "--quiet", "-p", "MemoryMax=1G", "true")
	return p.Exec.Run(probe) == nil
}

func (p *Pipeline) test() error {
	for _, target := range []string{"check-flang", "check-flang-rt"} {
		if err := p.Exec.Run(shellcmd.New("ninja", target).In(p.Config.BuildDir)); err != nil {
			return err
		}
	}
	return nil
}

// install runs the install target and drops the version marker next to the
// installed binaries.
func (p *Pipeline) install() error {
	if err := p.Exec.Run(shellcmd.New("ninja", "install").In(p.Config.BuildDir)); err != nil {
		return err
	}
	binDir := filepath.Join(p.Config.InstallDir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", binDir)
	}
	marker := filepath.Join(binDir, versionMarkerName)
	if err := os.WriteFile(marker, []byte(versionMarkerContent), 0644); err != nil {
		return errors.Wrap(err, "writing version marker")
	}
	return nil
}
