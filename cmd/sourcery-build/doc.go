// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the sourcery-build command tree.
//
// Every command receives an *App, the composition root that owns the
// configuration provider, filesystem, environment and output writers. Handlers
// resolve a target, render diagnostics, and delegate execution to the runtime
// and tool packages.
package cmd
