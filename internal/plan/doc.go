// SPDX-License-Identifier: MPL-2.0

// Package plan turns a resolved configuration into the ordered list of
// commands a build host runs before compiling a target.
package plan
