// SPDX-License-Identifier: MPL-2.0

// Package platform describes the host the generator runs on: operating
// system and architecture constants, the target triples an artifact bundle
// variant must support, and the spawn prefix needed to reach host binaries
// from inside a Flatpak sandbox.
package platform
