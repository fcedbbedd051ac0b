package config

import "testing"

func TestDefaultJobs(t *testing.T) {
	tests := []struct {
		cpus   int
		expect int
	}{
		{cpus: 1, expect: 1},
		{cpus: 3, expect: 1},
		{cpus: 4, expect: 1},
		{cpus: 7, expect: 1},
		{cpus: 8, expect: 2},
		{cpus: 16, expect: 4},
		{cpus: 64, expect: 16},
		{cpus: 255, expect: 63},
		{cpus: 256, expect: 64},
		{cpus: 1024, expect: 64}, // clamped
	}
	for _, tt := range tests {
		if expect, got := tt.expect, DefaultJobs(tt.cpus); expect != got {
			t.Errorf("DefaultJobs(%d): want %d, got %d", tt.cpus, expect, got)
		}
	}
}

func TestDefaultMemoryMB(t *testing.T) {
	tests := []struct {
		totalKB uint64
		expect  uint64
	}{
		{totalKB: 0, expect: 0},
		{totalKB: 2047, expect: 0},
		{totalKB: 2048, expect: 1},
		{totalKB: 16 * 1024 * 1024, expect: 8192}, // 16 GB box
		{totalKB: 16367964, expect: 7992},         // a real /proc/meminfo reading
	}
	for _, tt := range tests {
		if expect, got := tt.expect, DefaultMemoryMB(tt.totalKB); expect != got {
			t.Errorf("DefaultMemoryMB(%d): want %d, got %d", tt.totalKB, expect, got)
		}
	}
}

func TestParseBuildType(t *testing.T) {
	for _, ok := range []string{"Release", "Debug", "RelWithDebInfo", "MinSizeRel"} {
		if _, err := ParseBuildType(ok); err != nil {
			t.Errorf("ParseBuildType(%q): unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "release", "Fast", "RELEASE"} {
		if _, err := ParseBuildType(bad); err == nil {
			t.Errorf("ParseBuildType(%q): want error, got none", bad)
		}
	}
}

func TestParseArgsUnknownFlag(t *testing.T) {
	if _, err := ParseArgs([]string{"--frobnicate"}); err == nil {
		t.Error("unknown flag: want error, got none")
	}
	if _, err := ParseArgs([]string{"stray"}); err == nil {
		t.Error("stray positional token: want error, got none")
	}
}

func TestParseArgsNoArgs(t *testing.T) {
	opts, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("ParseArgs(nil): %v", err)
	}
	if !opts.NoArgs {
		t.Error("NoArgs: want true for empty command line")
	}
	opts, err = ParseArgs([]string{"-y"})
	if err != nil {
		t.Fatalf("ParseArgs(-y): %v", err)
	}
	if opts.NoArgs {
		t.Error("NoArgs: want false when flags were given")
	}
}

func TestParseArgsPassthrough(t *testing.T) {
	opts, err := ParseArgs([]string{"-DLLVM_CCACHE_BUILD=ON", "--cmake-arg", "-DFOO=1"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if expect, got := 2, len(opts.CMakeArgs); expect != got {
		t.Fatalf("CMakeArgs: want %d entries, got %d (%v)", expect, got, opts.CMakeArgs)
	}
	if expect, got := "LLVM_CCACHE_BUILD=ON", opts.CMakeArgs[0]; expect != got {
		t.Errorf("CMakeArgs[0]: want %q, got %q", expect, got)
	}
}
