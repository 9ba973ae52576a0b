// SPDX-License-Identifier: MPL-2.0

// Package resolver turns a target description into a resolved generator
// configuration.
//
// Resolution is pure with respect to its inputs: the filesystem and the
// process environment are injected, and every discovery failure is reported
// as a discovery.Diagnostic rather than logged or returned as an error.
package resolver
