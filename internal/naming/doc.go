// Package naming provides shared string case conversion utilities, used by
// conflict.Conflict.Slug to render filesystem-safe conflict report names.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
