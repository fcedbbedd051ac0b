package build

import (
	"github.com/fatih/color"

	"github.com/flangbuild/flangbuild/config"
	"github.com/flangbuild/flangbuild/console"
	"github.com/flangbuild/flangbuild/toolchain"
)

// Summary prints the fixed configuration block shown before the
// confirmation prompt.
func Summary(con *console.Console, c *config.Config, tc *toolchain.Toolchain) {
	head := color.New(color.Bold).Sprint("flangbuild configuration")
	con.Printf("%s\n", head)
	con.Printf("  root dir:       %s\n", c.RootDir)
	con.Printf("  source dir:     %s\n", c.SourceDir)
	con.Printf("  build dir:      %s\n", c.BuildDir)
	con.Printf("  install dir:    %s\n", c.InstallDir)
	con.Printf("  build type:     %s\n", c.BuildType)
	con.Printf("  parallel jobs:  %d\n", c.Jobs)
	con.Printf("  memory limit:   %d MB\n", c.MemoryMB)
	con.Printf("  targets:        %s\n", c.Targets)
	con.Printf("  assertions:     %s\n", onOff(c.Assertions))
	con.Printf("  werror:         %s\n", onOff(c.Werror))
	con.Printf("  quadmath:       %s\n", quadmathLine(c, tc))
	con.Printf("  offload:        %s\n", onOff(c.Offload))
	con.Printf("  C compiler:     %s\n", tc.CC)
	con.Printf("  C++ compiler:   %s\n", tc.CXX)
	con.Printf("  linker:         %s\n", orNone(tc.Linker))
	con.Printf("  cache tool:     %s\n", orNone(tc.CacheTool))
	con.Printf("  clean build:    %s\n", yesNo(c.Clean))
	con.Printf("  clone sources:  %s\n", yesNo(c.Clone))
	con.Printf("  run tests:      %s\n", yesNo(c.RunTests))
	if len(c.ExtraCMakeArgs) > 0 {
		con.Printf("  extra args:     %v\n", c.ExtraCMakeArgs)
	}
}

func quadmathLine(c *config.Config, tc *toolchain.Toolchain) string {
	if !c.Quadmath {
		return "disabled"
	}
	if !tc.Quadmath {
		return "unavailable"
	}
	return "ON (" + tc.QuadmathInclude + ")"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
