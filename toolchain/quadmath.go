package toolchain

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/flangbuild/flangbuild/shellcmd"
)

// Directories scanned for quadmath.h. Distributions disagree about where
// libquadmath's header lands.
var quadmathIncludeDirs = []string{
	"/usr/include",
	"/usr/local/include",
	"/usr/include/x86_64-linux-gnu",
	"/usr/lib/gcc/x86_64-linux-gnu/include",
}

const quadmathProbeSrc = `#include <quadmath.h>
int main(void) {
	__float128 x = sqrtq(2.0q);
	return (int)(x - x);
}
`

// probeQuadmath checks that 128-bit float math is usable with the selected
// C compiler: the header must be present in one of the known include
// directories and a trivial program must compile and link against
// -lquadmath. Returns the include directory found and whether the trial
// build succeeded.
func (d *Detector) probeQuadmath(cc string) (include string, ok bool) {
	for _, dir := range quadmathIncludeDirs {
		if _, err := os.Stat(filepath.Join(dir, "quadmath.h")); err == nil {
			include = dir
			break
		}
	}
	if include == "" {
		return "", false
	}

	tmp, err := ioutil.TempDir("", "flangbuild-quadmath")
	if err != nil {
		return include, false
	}
	defer os.RemoveAll(tmp)

	src := filepath.Join(tmp, "probe.c")
	if err := ioutil.WriteFile(src, []byte(quadmathProbeSrc), 0644); err != nil {
		return include, false
	}
	cmd := shellcmd.New(cc, "-I"+include, src, "-o", filepath.Join(tmp, "probe"), "-lquadmath").In(tmp)
	if err := d.Exec.Run(cmd); err != nil {
		return include, false
	}
	return include, true
}
