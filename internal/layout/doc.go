// SPDX-License-Identifier: MPL-2.0

// Package layout materializes the canonical package tree inside a
// workspace: copied source under src/<package>/, a synthesized
// pyproject.toml manifest, and a README. Generation is deterministic
// and writes only inside the workspace; the original source tree is
// never touched.
package layout
