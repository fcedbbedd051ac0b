package build

import (
	"path/filepath"

	"github.com/flangbuild/flangbuild/config"
	"github.com/flangbuild/flangbuild/shellcmd"
	"github.com/flangbuild/flangbuild/toolchain"
)

// Projects built alongside flang. mlir is a hard build dependency of flang,
// openmp supplies the runtime its OpenMP lowering targets.
const enableProjects = "clang;flang;mlir;openmp"

// ConfigureCommand assembles the cmake invocation from the resolved
// configuration and toolchain. It is a pure function of its inputs so the
// same command is rendered for --show-configure and executed.
func ConfigureCommand(c *config.Config, tc *toolchain.Toolchain, getenv func(string) string) shellcmd.Command {
	args := []string{
		"-G", "Ninja",
		filepath.Join(c.SourceDir, "llvm"),
		"-DCMAKE_BUILD_TYPE=" + string(c.BuildType),
		"-DCMAKE_INSTALL_PREFIX=" + c.InstallDir,
		"-DLLVM_ENABLE_PROJECTS=" + enableProjects,
		"-DLLVM_TARGETS_TO_BUILD=" + c.Targets,
		"-DLLVM_ENABLE_ASSERTIONS=" + onOff(c.Assertions),
		"-DFLANG_ENABLE_WERROR=" + onOff(c.Werror),
		"-DCMAKE_C_COMPILER=" + tc.CC,
		"-DCMAKE_CXX_COMPILER=" + tc.CXX,
	}
	if tc.Linker != "" {
		args = append(args, "-DLLVM_USE_LINKER="+tc.Linker)
	}
	if tc.CacheTool != "" {
		args = append(args,
			"-DCMAKE_C_COMPILER_LAUNCHER="+tc.CacheTool,
			"-DCMAKE_CXX_COMPILER_LAUNCHER="+tc.CacheTool)
	}
	if c.Quadmath && tc.Quadmath {
		args = append(args, "-DFLANG_RUNTIME_F128_MATH_LIB=libquadmath")
	}
	if c.Offload {
		args = append(args, "-DFLANG_OMP_DEVICE_ARCHITECTURES=all")
	}
	if rpath := getenv("LD_LIBRARY_PATH"); rpath != "" {
		args = append(args, "-DCMAKE_INSTALL_RPATH="+rpath)
	}
	// Passthrough options go last so they can override anything above.
	args = append(args, c.ExtraCMakeArgs...)

	return shellcmd.New("cmake", args...).In(c.BuildDir)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
