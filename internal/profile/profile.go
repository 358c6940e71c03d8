package profile

import (
	"fmt"
	"sort"
	"strings"
)

// Profile names the two classes of a binary task and maps test-set folder
// names to class indices.
type Profile struct {
	Name string
	// LabelMap maps a folder name under the test data directory to its class.
	LabelMap map[string]int
	// ClassNames holds the display name of class 0 and class 1.
	ClassNames [2]string
}

// Get returns the built-in profile for the given name.
func Get(name string) (*Profile, error) {
	switch name {
	case "center", "":
		return center(), nil
	case "binary":
		return binary(), nil
	default:
		return nil, fmt.Errorf("unknown profile %q: valid profiles are center, binary", name)
	}
}

// ClassOf returns the class for a folder name.
func (p *Profile) ClassOf(folder string) (int, bool) {
	c, ok := p.LabelMap[folder]
	return c, ok
}

// Folders returns the label-map folder names, ordered by class descending
// then by name, so positives are listed first.
func (p *Profile) Folders() []string {
	out := make([]string, 0, len(p.LabelMap))
	for f := range p.LabelMap {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := p.LabelMap[out[i]], p.LabelMap[out[j]]
		if ci != cj {
			return ci > cj
		}
		return out[i] < out[j]
	})
	return out
}

// DisplayName returns "name (class)" for class 0 or 1.
func (p *Profile) DisplayName(class int) string {
	if class != 0 && class != 1 {
		return fmt.Sprintf("class %d", class)
	}
	return fmt.Sprintf("%s (%d)", p.ClassNames[class], class)
}

// Describe returns a one-line summary of the label map.
func (p *Profile) Describe() string {
	parts := make([]string, 0, len(p.LabelMap))
	for _, f := range p.Folders() {
		parts = append(parts, fmt.Sprintf("%s=%d", f, p.LabelMap[f]))
	}
	return fmt.Sprintf("%s (%s)", p.Name, strings.Join(parts, ", "))
}
