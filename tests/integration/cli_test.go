// CLI integration tests for yardstick.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain builds the yardstick binary once before running tests.
func TestMain(m *testing.M) {
	// Find project root by looking for go.mod.
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	// Build yardstick binary into a temp directory.
	tmpDir, err := os.MkdirTemp("", "yardstick-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "yardstick")
	SetYardstickBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/yardstick")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{
			Err:    err,
			Output: string(output),
		})
		os.Exit(1)
	}

	code := m.Run()

	// Cleanup binary.
	os.RemoveAll(tmpDir)

	os.Exit(code)
}

// Test1_Initialize verifies catalog initialization and seeding.
func Test1_Initialize(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunYardstick("init")

	// Verify output message.
	if result.Stdout == "" {
		t.Error("expected init output message")
	}

	// Verify data directory and catalog database were created.
	if _, err := os.Stat(env.DataDir); os.IsNotExist(err) {
		t.Error("data directory not created")
	}
	dbFile := filepath.Join(env.DataDir, "catalog.db")
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		t.Error("catalog.db not created")
	}

	// Verify the builtin units were seeded.
	list := env.MustRunYardstick("list")
	if !strings.Contains(list.Stdout, "kilometre") {
		t.Errorf("seeded unit missing from list output:\n%s", list.Stdout)
	}
	if !strings.Contains(list.Stdout, "Total: 14 unit(s)") {
		t.Errorf("unexpected seeded unit count:\n%s", list.Stdout)
	}

	// Re-running init must not duplicate or wipe the seeded units.
	env.MustRunYardstick("init")
	list = env.MustRunYardstick("list")
	if !strings.Contains(list.Stdout, "Total: 14 unit(s)") {
		t.Errorf("init is not idempotent:\n%s", list.Stdout)
	}
}

// Test2_Version verifies the version command.
func Test2_Version(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunYardstick("version")
	if !strings.Contains(result.Stdout, "yardstick v") {
		t.Errorf("unexpected version output: %q", result.Stdout)
	}
}

// Test3_ConvertSeededUnits verifies conversions over the seeded catalog.
func Test3_ConvertSeededUnits(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunYardstick("init")

	tests := []struct {
		name  string
		value string
		from  string
		to    string
		want  string
	}{
		{"kilometres to metres", "2", "kilometre", "metre", "2000"},
		{"hours to seconds", "1", "hour", "second", "3600"},
		{"celsius to kelvin", "0", "celsius", "kelvin", "273.15"},
		{"kelvin to celsius", "373.15", "kelvin", "celsius", "100"},
		{"temperature difference", "5", "celsius_diff", "kelvin", "5"},
		{"tonnes to grams", "1", "tonne", "gram", "1000000"},
		{"cents to dollars", "250", "usd_cent", "usd", "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := env.MustRunYardstick("--json", "convert", tt.value, tt.from, tt.to)
			converted := ParseJSON[ConvertResult](t, result.Stdout)
			if !EqualDecimal(t, tt.want, converted.Value) {
				t.Errorf("convert %s %s %s = %s, want %s", tt.value, tt.from, tt.to, converted.Value, tt.want)
			}
			if converted.Unit != tt.to {
				t.Errorf("converted unit = %s, want %s", converted.Unit, tt.to)
			}
		})
	}

	// Human-readable output states both sides of the conversion.
	result := env.MustRunYardstick("convert", "2", "kilometre", "metre")
	if !strings.Contains(result.Stdout, "2 kilometre = 2000 metre") {
		t.Errorf("unexpected convert output: %q", result.Stdout)
	}
}

// Test4_ConvertErrors verifies error reporting and exit codes for bad
// conversions.
func Test4_ConvertErrors(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunYardstick("init")

	t.Run("unknown unit", func(t *testing.T) {
		result := env.RunYardstick("convert", "1", "parsec", "metre")
		if result.ExitCode != 1 {
			t.Errorf("exit code = %d, want 1", result.ExitCode)
		}
		if !strings.Contains(result.Stderr, "parsec") {
			t.Errorf("stderr should name the unknown unit: %q", result.Stderr)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		result := env.RunYardstick("convert", "abc", "kilometre", "metre")
		if result.ExitCode != 1 {
			t.Errorf("exit code = %d, want 1", result.ExitCode)
		}
	})

	t.Run("no conversion factor", func(t *testing.T) {
		result := env.RunYardstick("convert", "10", "kilogram", "usd")
		if result.ExitCode != 1 {
			t.Errorf("exit code = %d, want 1", result.ExitCode)
		}
		if !strings.Contains(result.Stderr, "kilogram") || !strings.Contains(result.Stderr, "usd") {
			t.Errorf("stderr should name both units: %q", result.Stderr)
		}
	})
}

// Test5_DefineFlow verifies the full define -> convert -> list -> delete flow.
func Test5_DefineFlow(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunYardstick("init")

	// Define a primary unit of a new dimension, then a derived unit of it.
	env.MustRunYardstick("define", "primary", "byte", "data")
	env.MustRunYardstick("define", "derived", "kibibyte", "byte", "1024")

	result := env.MustRunYardstick("--json", "convert", "2", "kibibyte", "byte")
	converted := ParseJSON[ConvertResult](t, result.Stdout)
	if !EqualDecimal(t, "2048", converted.Value) {
		t.Errorf("convert 2 kibibyte byte = %s, want 2048", converted.Value)
	}

	// Define composites: a plain one and a scaled one.
	env.MustRunYardstick("define", "complex", "square_metre", "metre:2")
	env.MustRunYardstick("define", "complex", "hectare", "metre:2", "--scale", "10000")

	result = env.MustRunYardstick("--json", "convert", "1", "hectare", "square_metre")
	converted = ParseJSON[ConvertResult](t, result.Stdout)
	if !EqualDecimal(t, "10000", converted.Value) {
		t.Errorf("convert 1 hectare square_metre = %s, want 10000", converted.Value)
	}

	// The new definitions show up in the listing.
	list := env.MustRunYardstick("--json", "list")
	rows := ParseJSON[[]UnitRow](t, list.Stdout)
	found := make(map[string]UnitRow, len(rows))
	for _, row := range rows {
		found[row.Name] = row
	}
	if row, ok := found["kibibyte"]; !ok {
		t.Error("kibibyte missing from list")
	} else {
		if row.Kind != "derived" || row.Dimension != "data" || row.Ratio != "1024" {
			t.Errorf("unexpected kibibyte row: %+v", row)
		}
	}
	if row, ok := found["hectare"]; !ok {
		t.Error("hectare missing from list")
	} else if row.Kind != "complex" {
		t.Errorf("unexpected hectare row: %+v", row)
	}

	// Definitions survive across invocations; deletion removes them.
	env.MustRunYardstick("delete", "kibibyte")
	list = env.MustRunYardstick("list")
	if strings.Contains(list.Stdout, "kibibyte") {
		t.Errorf("kibibyte still listed after delete:\n%s", list.Stdout)
	}
}

// Test6_DefineErrors verifies validation failures during define.
func Test6_DefineErrors(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunYardstick("init")

	tests := []struct {
		name   string
		args   []string
		errSub string
	}{
		{"duplicate name", []string{"define", "derived", "kilometre", "metre", "1000"}, "kilometre"},
		{"unknown base", []string{"define", "derived", "league", "furlong", "24"}, "furlong"},
		{"invalid ratio", []string{"define", "derived", "league", "metre", "abc"}, "ratio"},
		{"negative ratio", []string{"define", "derived", "league", "metre", "--", "-5"}, "ratio"},
		{"offset base rejected", []string{"define", "derived", "decicelsius", "celsius", "0.1"}, "celsius"},
		{"bad component power", []string{"define", "complex", "area", "metre:x"}, "component"},
		{"unknown component", []string{"define", "complex", "area", "furlong:2"}, "furlong"},
		{"second primary for dimension", []string{"define", "primary", "meter", "length"}, "length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := env.RunYardstick(tt.args...)
			if result.ExitCode != 1 {
				t.Errorf("exit code = %d, want 1 (stderr: %s)", result.ExitCode, result.Stderr)
			}
			if !strings.Contains(result.Stderr, tt.errSub) {
				t.Errorf("stderr %q should contain %q", result.Stderr, tt.errSub)
			}
		})
	}
}

// Test7_ConversionFactors verifies factor registration and cross-dimension
// conversion.
func Test7_ConversionFactors(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunYardstick("init")

	env.MustRunYardstick("define", "complex", "usd_per_kilogram", "usd", "kilogram:-1")
	env.MustRunYardstick("define", "factor", "3", "usd_per_kilogram")

	// Price factor bridges mass to price.
	result := env.MustRunYardstick("--json", "convert", "10", "kilogram", "usd")
	converted := ParseJSON[ConvertResult](t, result.Stdout)
	if !EqualDecimal(t, "30", converted.Value) {
		t.Errorf("convert 10 kilogram usd = %s, want 30", converted.Value)
	}

	// The factor is visible in the factors listing.
	factors := env.MustRunYardstick("--json", "factors")
	rows := ParseJSON[[]FactorRow](t, factors.Stdout)
	if len(rows) != 1 {
		t.Fatalf("expected 1 factor, got %d", len(rows))
	}
	if rows[0].Quotient != "mass^-1*price" || rows[0].Value != "3" || rows[0].Unit != "usd_per_kilogram" {
		t.Errorf("unexpected factor row: %+v", rows[0])
	}

	// Registering a new factor for the same quotient replaces the old one.
	env.MustRunYardstick("define", "factor", "4", "usd_per_kilogram")
	factors = env.MustRunYardstick("--json", "factors")
	rows = ParseJSON[[]FactorRow](t, factors.Stdout)
	if len(rows) != 1 || rows[0].Value != "4" {
		t.Errorf("factor was not replaced: %+v", rows)
	}
}

// Test8_Show verifies unit detail output.
func Test8_Show(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunYardstick("init")

	t.Run("derived unit", func(t *testing.T) {
		result := env.MustRunYardstick("show", "kilometre")
		for _, want := range []string{"kilometre", "derived", "length", "1000", "metre"} {
			if !strings.Contains(result.Stdout, want) {
				t.Errorf("show output missing %q:\n%s", want, result.Stdout)
			}
		}
	})

	t.Run("offset unit", func(t *testing.T) {
		result := env.MustRunYardstick("show", "celsius")
		for _, want := range []string{"offset", "273.15", "kelvin"} {
			if !strings.Contains(result.Stdout, want) {
				t.Errorf("show output missing %q:\n%s", want, result.Stdout)
			}
		}
	})

	t.Run("difference unit", func(t *testing.T) {
		result := env.MustRunYardstick("show", "celsius_diff")
		for _, want := range []string{"diff", "celsius"} {
			if !strings.Contains(result.Stdout, want) {
				t.Errorf("show output missing %q:\n%s", want, result.Stdout)
			}
		}
	})

	t.Run("complex unit JSON", func(t *testing.T) {
		result := env.MustRunYardstick("--json", "show", "metre_per_second")
		details := ParseJSON[map[string]any](t, result.Stdout)
		if details["kind"] != "complex" {
			t.Errorf("kind = %v, want complex", details["kind"])
		}
		if details["dimension"] != "length*time^-1" {
			t.Errorf("dimension = %v, want length*time^-1", details["dimension"])
		}
	})

	t.Run("unknown unit", func(t *testing.T) {
		result := env.RunYardstick("show", "parsec")
		if result.ExitCode != 1 {
			t.Errorf("exit code = %d, want 1", result.ExitCode)
		}
	})
}

// Test9_DeleteDependents verifies the dependent check on delete.
func Test9_DeleteDependents(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunYardstick("init")

	// metre is referenced by kilometre, millimetre, and metre_per_second.
	result := env.RunYardstick("delete", "metre")
	if result.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "kilometre") {
		t.Errorf("stderr should name a dependent: %q", result.Stderr)
	}

	// Deleting the dependents first unblocks the delete.
	env.MustRunYardstick("delete", "kilometre")
	env.MustRunYardstick("delete", "millimetre")
	env.MustRunYardstick("delete", "metre_per_second")
	env.MustRunYardstick("delete", "metre")

	result = env.RunYardstick("delete", "metre")
	if result.ExitCode != 1 {
		t.Errorf("deleting a missing unit: exit code = %d, want 1", result.ExitCode)
	}
}

// Test10_ConfigPrecedence verifies that config.yaml supplies the data
// directory when the flag is absent.
func Test10_ConfigPrecedence(t *testing.T) {
	env := NewTestEnv(t)

	// The harness config.yaml points data_dir at env.DataDir; run without
	// the --data-dir flag and verify the catalog lands there.
	result := env.RunWithoutDataFlag("init")
	if result.ExitCode != 0 {
		t.Fatalf("init failed: %s", result.Stderr)
	}

	dbFile := filepath.Join(env.DataDir, "catalog.db")
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		t.Error("catalog.db not created in config.yaml data_dir")
	}
}

// Test11_DefaultConfigFile verifies init scaffolds config.yaml when missing.
func Test11_DefaultConfigFile(t *testing.T) {
	env := NewTestEnv(t)

	emptyConfigDir := filepath.Join(env.TempDir, "fresh-config")
	result := env.run([]string{"--config-dir", emptyConfigDir, "--data-dir", env.DataDir, "init"})
	if result.ExitCode != 0 {
		t.Fatalf("init failed: %s", result.Stderr)
	}

	data, err := os.ReadFile(filepath.Join(emptyConfigDir, "config.yaml"))
	if err != nil {
		t.Fatalf("default config.yaml not created: %v", err)
	}
	if !strings.Contains(string(data), "system:") {
		t.Errorf("default config.yaml missing system key:\n%s", data)
	}
}
