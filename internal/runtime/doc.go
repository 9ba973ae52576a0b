// SPDX-License-Identifier: MPL-2.0

// Package runtime executes planned commands on the host.
//
// Clean commands are carried out natively. Generate commands run the external
// generator through os/exec with the derived environment layered over the host
// environment. A file lock in the target's work directory serializes
// concurrent runs for the same target.
package runtime
