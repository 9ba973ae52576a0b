// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/invowk/sourcery-build/pkg/platform"
)

var linuxHost = platform.Host{OS: platform.Linux, Arch: platform.AMD64}

const testInfoJSON = `{
  "schemaVersion": "1.0",
  "artifacts": {
    "sourcery": {
      "version": "2.2.5",
      "type": "executable",
      "variants": [
        {"path": "sourcery/bin/sourcery", "supportedTriples": ["x86_64-unknown-linux-gnu", "arm64-apple-macosx"]}
      ]
    }
  }
}`

type zipEntry struct {
	name string
	body string
}

// buildZip returns an archive and its SHA-256.
func buildZip(t *testing.T, entries ...zipEntry) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		hdr.SetMode(0o755)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return buf.Bytes(), hex.EncodeToString(sum[:])
}

func testBundle(t *testing.T) ([]byte, string) {
	t.Helper()
	return buildZip(t,
		zipEntry{"sourcery.artifactbundle/info.json", testInfoJSON},
		zipEntry{"sourcery.artifactbundle/sourcery/bin/sourcery", "#!/bin/sh\necho 2.2.5\n"},
	)
}
