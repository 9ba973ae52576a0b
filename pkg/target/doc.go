// SPDX-License-Identifier: MPL-2.0

// Package target describes a build target as the host hands it over: a name,
// a source directory, and the ordered list of declared input files.
//
// A target arrives either as a manifest file written by the host (JSON, YAML,
// TOML or CUE, chosen by extension) or is assembled from a directory scan when
// the tool runs outside a host.
package target
