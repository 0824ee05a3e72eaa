// Package pathutil normalizes op params paths to tree-relative form
// before any filesystem action, per spec §4.6/§9: an absolute path is
// rejected down to its final path component, so the applier can never be
// tricked into escaping the tree root it was handed.
//
// Ported from the same defensive posture as erraggy/oastools's
// internal/pathutil.SanitizeOutputPath, adapted from "clean an absolute
// output path" to "clean an op-supplied path down to something safely
// joinable under a tree root".
package pathutil

import "path/filepath"

// NormalizeRelative cleans value and strips any leading path components
// that would escape a tree root: a rooted path ("/etc/passwd") is reduced
// to its base name, and any ".." segments are collapsed by filepath.Clean
// before a final check removes whatever ".." prefix remains.
func NormalizeRelative(value string) string {
	cleaned := filepath.Clean(value)
	if filepath.IsAbs(cleaned) {
		return filepath.Base(cleaned)
	}
	for cleaned == ".." || hasDotDotPrefix(cleaned) {
		cleaned = stripLeadingDotDot(cleaned)
		if cleaned == "" {
			return "."
		}
	}
	return cleaned
}

// JoinTreeRelative joins a tree root with an op-supplied path, having
// first normalized the path so the result can never resolve outside
// root.
func JoinTreeRelative(root, value string) string {
	return filepath.Join(root, NormalizeRelative(value))
}

func hasDotDotPrefix(p string) bool {
	return len(p) >= 3 && p[:3] == ".."+string(filepath.Separator)
}

func stripLeadingDotDot(p string) string {
	if p == ".." {
		return ""
	}
	return p[3:]
}
