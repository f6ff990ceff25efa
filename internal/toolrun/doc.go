// SPDX-License-Identifier: MPL-2.0

// Package toolrun invokes the external tools the pipeline orchestrates
// (ruff, pytest, the PEP 517 build frontend, twine) and captures their
// output. Every capability in the pipeline talks to tools through the
// Runner interface, so tests substitute in-process fakes and the
// orchestrator never holds a process handle itself.
package toolrun
