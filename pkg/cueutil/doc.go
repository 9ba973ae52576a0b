// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE decoding helpers shared by target manifests
// and the tool configuration.
//
// Every CUE document is handled the same way:
//
//  1. Compile the embedded schema
//  2. Compile the user document and unify it with a schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var manifestSchema []byte
//
//	result, err := cueutil.ParseAndDecode[manifestFile](
//	    manifestSchema,
//	    data,
//	    "#Manifest",
//	    cueutil.WithFilename("target.cue"),
//	)
//	if err != nil {
//	    return nil, err // carries the CUE path of the offending field
//	}
package cueutil
