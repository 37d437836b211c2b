// Package yardstick carries module-level metadata shared by the CLI and
// library consumers.
package yardstick

// Version is the yardstick release version.
const Version = "v0.1.0"
