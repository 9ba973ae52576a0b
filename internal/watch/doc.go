// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs generation when a target's sources, templates or
// generator configuration change.
//
// Events are filtered by doublestar patterns relative to the watched
// directory, coalesced over a debounce window and delivered to a single
// callback. A callback that is still running when the next window closes
// causes that window to be retried instead of running concurrently.
package watch
