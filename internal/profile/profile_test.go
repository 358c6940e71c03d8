package profile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGet_AllNamedProfiles(t *testing.T) {
	names := []string{"center", "binary"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p, err := Get(name)
			if err != nil {
				t.Fatalf("Get(%q): %v", name, err)
			}
			if p == nil {
				t.Fatalf("Get(%q) returned nil profile", name)
			}
			if p.Name != name {
				t.Errorf("Name = %q, want %q", p.Name, name)
			}
			if len(p.LabelMap) != 2 {
				t.Errorf("LabelMap has %d entries, want 2", len(p.LabelMap))
			}
		})
	}
}

func TestGet_EmptyNameReturnsCenter(t *testing.T) {
	p, err := Get("")
	if err != nil {
		t.Fatalf("Get(''): %v", err)
	}
	if p.Name != "center" {
		t.Errorf("expected center, got %q", p.Name)
	}
}

func TestGet_UnknownName(t *testing.T) {
	_, err := Get("multiclass")
	if err == nil {
		t.Error("expected error for unknown profile, got nil")
	}
}

func TestClassOf_CenterProfile(t *testing.T) {
	p, _ := Get("center")
	if c, ok := p.ClassOf("center"); !ok || c != 1 {
		t.Errorf("ClassOf(center) = %d, %v; want 1, true", c, ok)
	}
	if c, ok := p.ClassOf("not_center"); !ok || c != 0 {
		t.Errorf("ClassOf(not_center) = %d, %v; want 0, true", c, ok)
	}
	if _, ok := p.ClassOf("unsorted"); ok {
		t.Error("ClassOf(unsorted) should not resolve")
	}
}

func TestFolders_PositiveFirst(t *testing.T) {
	p, _ := Get("center")
	want := []string{"center", "not_center"}
	if diff := cmp.Diff(want, p.Folders()); diff != "" {
		t.Errorf("Folders() mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayName(t *testing.T) {
	p, _ := Get("center")
	if got := p.DisplayName(0); got != "not_center (0)" {
		t.Errorf("DisplayName(0) = %q", got)
	}
	if got := p.DisplayName(1); got != "center (1)" {
		t.Errorf("DisplayName(1) = %q", got)
	}
}
