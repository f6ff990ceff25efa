// SPDX-License-Identifier: MPL-2.0

// Package pipeline sequences the packaging workflow: request validation,
// workspace acquisition, layout generation, quality gates, artifact
// build, and the optional index upload. Stages run strictly in order,
// fail fast at stage boundaries, and always release the workspace before
// returning the report to the caller.
//
// The orchestrator holds no process handles and no cross-invocation
// state: concurrent Run calls are independent because each acquires its
// own uniquely-named workspace and never touches anything outside it.
package pipeline
