package config

import "testing"

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(``), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Paths) != 1 || cfg.Paths[0] != "." {
		t.Errorf("paths = %v, want [.]", cfg.Paths)
	}
	if cfg.GraphKind != GraphFunctionBody {
		t.Errorf("graph_kind = %q, want %q", cfg.GraphKind, GraphFunctionBody)
	}
	if cfg.Security.MaxDepth != 40 {
		t.Errorf("max_depth = %d, want 40", cfg.Security.MaxDepth)
	}
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	yaml := `
paths: [src, lib]
find_unused_expressions: true
graph_kind: whole_program_taint
security_config:
  max_depth: 10
threads: 4
issues_to_fix: [UnusedFunction]
migration_symbols:
  - migration_name: rename-foo
    target_symbol: Foo::bar
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Paths) != 2 || cfg.Paths[0] != "src" || cfg.Paths[1] != "lib" {
		t.Errorf("paths = %v", cfg.Paths)
	}
	if !cfg.FindUnusedExpressions {
		t.Error("expected find_unused_expressions to be true")
	}
	if cfg.GraphKind != GraphWholeProgramTaint {
		t.Errorf("graph_kind = %q", cfg.GraphKind)
	}
	if cfg.Security.MaxDepth != 10 {
		t.Errorf("max_depth = %d, want 10", cfg.Security.MaxDepth)
	}
	if cfg.Threads != 4 {
		t.Errorf("threads = %d, want 4", cfg.Threads)
	}
	if !cfg.ShouldFix("UnusedFunction") {
		t.Error("expected UnusedFunction to be fixable")
	}
	if cfg.ShouldFix("UndefinedVariable") {
		t.Error("did not expect UndefinedVariable to be fixable")
	}
	if len(cfg.MigrationSymbols) != 1 || cfg.MigrationSymbols[0].TargetSymbol != "Foo::bar" {
		t.Errorf("migration_symbols = %v", cfg.MigrationSymbols)
	}
}

func TestParseConfigRejectsUnknownGraphKind(t *testing.T) {
	_, err := ParseConfig([]byte("graph_kind: bogus\n"), "test.yaml")
	if err == nil {
		t.Fatal("expected an error for an unrecognized graph_kind")
	}
}

func TestIsAllowedWithNoFilterAllowsEverything(t *testing.T) {
	cfg := Default()
	if !cfg.IsAllowed("AnythingAtAll") {
		t.Error("expected an empty allowed_issues list to allow every kind")
	}
}

func TestIsAllowedRestrictsToConfiguredSet(t *testing.T) {
	cfg := Default()
	cfg.AllowedIssues = []string{"UndefinedVariable"}
	if !cfg.IsAllowed("UndefinedVariable") {
		t.Error("expected UndefinedVariable to be allowed")
	}
	if cfg.IsAllowed("UnusedFunction") {
		t.Error("did not expect UnusedFunction to be allowed")
	}
}

func TestFindConfigReturnsEmptyWhenAbsent(t *testing.T) {
	path, err := FindConfig("/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
}
