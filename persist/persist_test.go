package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/petridish/engine"
)

func TestRoundTripReproducesRulesGroupsTypes(t *testing.T) {
	src := engine.NewDefault()
	path := filepath.Join(t.TempDir(), "dish.json")

	if err := Save(path, src); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dst := engine.New(32)
	if err := Load(path, dst); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(dst.Rules) != len(src.Rules) {
		t.Fatalf("rule count: got %d, want %d", len(dst.Rules), len(src.Rules))
	}
	for i := range src.Rules {
		a, b := src.Rules[i], dst.Rules[i]
		if a.Name != b.Name || a.Enabled != b.Enabled || a.FlipX != b.FlipX ||
			a.FlipY != b.FlipY || a.Rotate != b.Rotate || a.Failrate != b.Failrate {
			t.Fatalf("rule %d fields diverged: %+v vs %+v", i, a, b)
		}
		if a.VariantCount() != b.VariantCount() {
			t.Fatalf("rule %d variant count: got %d, want %d", i, b.VariantCount(), a.VariantCount())
		}
		for v := range a.Variants {
			if !a.Variants[v].Equal(b.Variants[v]) {
				t.Fatalf("rule %d variant %d diverged after round-trip", i, v)
			}
		}
	}

	if len(dst.Groups) != len(src.Groups) {
		t.Fatalf("group count: got %d, want %d", len(dst.Groups), len(src.Groups))
	}
	for i := range src.Groups {
		if src.Groups[i].Name != dst.Groups[i].Name || src.Groups[i].Void != dst.Groups[i].Void {
			t.Fatalf("group %d diverged", i)
		}
	}

	if len(dst.Types) != len(src.Types) {
		t.Fatalf("type count: got %d, want %d", len(dst.Types), len(src.Types))
	}
}

func TestLoadMissingNameFailrateRotateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.json")
	minimal := []byte(`{
		"rules": [{"base": {"width": 1, "height": 1, "contents": [{"from": {"kind": "any"}, "to": {"kind": "none"}}]}, "enabled": true}],
		"types": [],
		"groups": []
	}`)
	if err := os.WriteFile(path, minimal, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e := engine.New(8)
	if err := Load(path, e); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(e.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(e.Rules))
	}
	r := e.Rules[0]
	if r.Name != "" || r.Failrate != 0 || r.Rotate {
		t.Fatalf("expected defaulted name/failrate/rotate, got %+v", r)
	}
}

func TestLoadRejectsOutOfRangeGroupReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	bad := []byte(`{
		"rules": [{"base": {"width": 1, "height": 1, "contents": [{"from": {"kind": "group", "group": 5}, "to": {"kind": "none"}}]}, "enabled": true}],
		"types": [],
		"groups": []
	}`)
	if err := os.WriteFile(path, bad, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e := engine.NewDefault()
	before := len(e.Rules)
	if err := Load(path, e); err == nil {
		t.Fatal("expected an error for an out-of-range group reference")
	}
	if len(e.Rules) != before {
		t.Fatal("a failed load must leave the engine untouched")
	}
}
