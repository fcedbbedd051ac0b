// Command flangbuild configures and drives a CMake/Ninja build of
// LLVM/Flang against the host toolchain.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/flangbuild/flangbuild/build"
	"github.com/flangbuild/flangbuild/config"
	"github.com/flangbuild/flangbuild/console"
	"github.com/flangbuild/flangbuild/shellcmd"
	"github.com/flangbuild/flangbuild/sysinfo"
	"github.com/flangbuild/flangbuild/toolchain"
)

const Usage = `flangbuild drives a CMake/Ninja build of LLVM/Flang.

Usage:

  flangbuild [options]

The CC and CXX environment variables pin the compilers; BUILD_TYPE, JOBS,
ROOT_DIR, INSTALL_DIR and MEMLIMIT override the computed defaults. Explicit
flags win over the environment.

Options:

`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := config.ParseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flangbuild: %v\n", err)
		return 1
	}
	if opts.Help {
		fmt.Print(Usage)
		fmt.Print(opts.FlagUsages())
		return 0
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flangbuild: %v\n", err)
		return 1
	}
	defer logger.Sync()
	con := console.New(logger.Sugar(), os.Stdin, os.Stdout)

	if opts.NoArgs {
		con.Notef("no options given, building with defaults (--help lists the options)")
	}
	if !opts.Yes && !con.Interactive() {
		con.Notef("stdin is not a terminal; prompts read from input (use --yes for unattended runs)")
	}

	host := sysinfo.Probe()
	conf, err := config.Resolve(opts, host, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flangbuild: %v\n", err)
		return 1
	}

	det := &toolchain.Detector{
		AssumeYes:    conf.AssumeYes,
		WantQuadmath: conf.Quadmath,
		Warnf:        con.Warnf,
		Notef:        con.Notef,
		Confirm:      con.Confirm,
	}
	tools, err := det.Detect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flangbuild: %v\n", err)
		return 1
	}

	build.Summary(con, conf, tools)
	ok, err := console.Decide(conf.AssumeYes, func() (bool, error) {
		return con.Confirm("proceed with this configuration?")
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "flangbuild: %v\n", err)
		return 1
	}
	if !ok {
		con.Notef("nothing done")
		return 0
	}

	p := &build.Pipeline{
		Config: conf,
		Tools:  tools,
		Host:   host,
		Exec:   shellcmd.System{Stdout: os.Stdout, Stderr: os.Stderr},
		Con:    con,
	}
	if err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "flangbuild: %v\n", err)
		return shellcmd.ExitCode(err)
	}
	con.Notef("installed into %s", conf.InstallDir)
	return 0
}
