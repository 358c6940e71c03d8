package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/labelcritic/internal/schema"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Manifest renders one "<image name>\t<label>" line per record, in report
// order, taking labels from the given vector.
func Manifest(records []schema.Record, labels []int) (string, error) {
	if len(labels) != len(records) {
		return "", fmt.Errorf("manifest: have %d labels for %d records", len(labels), len(records))
	}
	var b strings.Builder
	for i, r := range records {
		b.WriteString(r.ImageName)
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(labels[i]))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// GenerateDiff returns a patch in diff-match-patch text form that turns the
// before manifest into the after manifest, or "" when they are equal. The
// diff is computed line by line so each hunk names whole manifest entries.
// Both sides are normalized first to avoid spurious whitespace diffs.
func GenerateDiff(name, before, after string) string {
	before, after = normalize(before), normalize(after)
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	patchText := dmp.PatchToText(dmp.PatchMake(before, diffs))
	if patchText == "" {
		return ""
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("# label patch for %s\n", name))
	out.WriteString(patchText)
	return out.String()
}

// Apply applies a patch produced by GenerateDiff to a manifest. Comment
// lines are ignored. An error is returned when any hunk fails to apply.
func Apply(manifest, patchText string) (string, error) {
	var body strings.Builder
	for _, line := range strings.SplitAfter(patchText, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		body.WriteString(line)
	}

	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(body.String())
	if err != nil {
		return "", fmt.Errorf("parsing label patch: %w", err)
	}
	out, applied := dmp.PatchApply(patches, normalize(manifest))
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("label patch hunk %d did not apply", i+1)
		}
	}
	return out, nil
}

// normalize trims trailing whitespace from each line and converts CRLF to LF.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
