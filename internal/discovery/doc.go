// SPDX-License-Identifier: MPL-2.0

// Package discovery finds the files that drive generation for a target and
// reports what it could not find as structured diagnostics.
//
// File organization:
//   - diagnostic.go: Severity, DiagnosticCode and Diagnostic
//   - files.go: template discovery, source root computation, fixed-name lookups
package discovery
