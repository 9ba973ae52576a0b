// SPDX-License-Identifier: MPL-2.0

// Package tool locates the sourcery executable and installs it from a
// checksum-pinned artifact bundle.
//
// File organization:
//   - locator.go: configured path, installed bundle, PATH lookup
//   - bundle.go: artifact bundle manifest (info.json) and variant selection
//   - installer.go: download, verification, extraction
//   - checksum.go: SHA-256 verification
//   - version.go: release version handling
package tool
