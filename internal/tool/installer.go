// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/invowk/sourcery-build/pkg/platform"
)

const (
	downloadTimeout = 5 * time.Minute
	retryCount      = 3
	retryWait       = 2 * time.Second

	// maxEntryBytes caps each extracted file to guard against decompression bombs.
	maxEntryBytes = 512 << 20
)

// ErrUnsafeArchivePath is returned for archive entries that would escape the
// extraction directory.
var ErrUnsafeArchivePath = errors.New("unsafe path in archive")

type (
	// Installer downloads and unpacks artifact bundles into a versioned
	// directory layout: <dir>/<version>/.
	Installer struct {
		dir    string
		client *resty.Client
		host   platform.Host
	}

	// InstallerOption configures an Installer.
	InstallerOption func(*Installer)

	// InstallRequest selects what to install.
	InstallRequest struct {
		// Version defaults to DefaultVersion.
		Version string
		// URL defaults to the official release bundle for Version.
		URL string
		// Checksum defaults to the pinned checksum of the official release.
		Checksum string
		// Force reinstalls even if the version is already present.
		Force bool
	}

	// InstallResult describes an installed executable.
	InstallResult struct {
		Path    string
		Version string
		// Cached is true when an existing install was reused.
		Cached bool
	}
)

// WithHTTPClient replaces the resty client.
func WithHTTPClient(c *resty.Client) InstallerOption {
	return func(i *Installer) { i.client = c }
}

// WithHost overrides the host platform used for variant selection.
func WithHost(h platform.Host) InstallerOption {
	return func(i *Installer) { i.host = h }
}

// NewInstaller creates an Installer rooted at dir.
func NewInstaller(dir string, opts ...InstallerOption) *Installer {
	i := &Installer{
		dir:  dir,
		host: platform.Current(),
		client: resty.New().
			SetTimeout(downloadTimeout).
			SetRetryCount(retryCount).
			SetRetryWaitTime(retryWait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500
			}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// VersionDir returns where a version is installed.
func (i *Installer) VersionDir(version string) string {
	return filepath.Join(i.dir, version)
}

// Install downloads, verifies and extracts the requested bundle, returning
// the path of the host's executable.
func (i *Installer) Install(ctx context.Context, req InstallRequest) (*InstallResult, error) {
	version, url, checksum, err := req.resolve()
	if err != nil {
		return nil, err
	}

	dest := i.VersionDir(version)
	if !req.Force {
		if path, err := FindInstalled(i.dir, version, i.host); err == nil {
			slog.Debug("sourcery already installed", "version", version, "path", path)
			return &InstallResult{Path: path, Version: version, Cached: true}, nil
		}
	}

	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create install directory: %w", err)
	}

	archive, err := i.download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(archive) }()

	if err := VerifyFile(archive, checksum); err != nil {
		return nil, err
	}

	staging, err := os.MkdirTemp(i.dir, ".staging-*")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := extractZip(archive, staging); err != nil {
		return nil, err
	}
	bundle, err := OpenBundle(staging)
	if err != nil {
		return nil, err
	}
	if _, err := bundle.ExecutablePath(i.host.Triples()); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(dest); err != nil {
		return nil, fmt.Errorf("remove previous install: %w", err)
	}
	if err := os.Rename(staging, dest); err != nil {
		return nil, fmt.Errorf("move bundle into place: %w", err)
	}

	path, err := FindInstalled(i.dir, version, i.host)
	if err != nil {
		return nil, err
	}
	slog.Info("installed sourcery", "version", version, "path", path)
	return &InstallResult{Path: path, Version: version}, nil
}

func (r InstallRequest) resolve() (version, url, checksum string, err error) {
	version = r.Version
	if version == "" {
		version = DefaultVersion
	}
	if version, err = NormalizeVersion(version); err != nil {
		return "", "", "", err
	}

	url = r.URL
	if url == "" {
		url = ReleaseURL(version)
	}

	checksum = r.Checksum
	if checksum == "" && url == ReleaseURL(version) {
		checksum, _ = KnownChecksum(version)
	}
	if checksum == "" {
		return "", "", "", fmt.Errorf("%w: %s", ErrChecksumRequired, url)
	}
	if !IsValidChecksum(checksum) {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidChecksum, checksum)
	}
	return version, url, checksum, nil
}

func (i *Installer) download(ctx context.Context, url string) (string, error) {
	tmp, err := os.CreateTemp(i.dir, ".download-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()

	slog.Info("downloading sourcery bundle", "url", url)
	resp, err := i.client.R().SetContext(ctx).SetOutput(path).Get(url)
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	if resp.IsError() {
		_ = os.Remove(path)
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status())
	}
	return path, nil
}

func extractZip(archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = zr.Close()
		return fmt.Errorf("%w: %w", ErrUnsafeArchivePath, err)
	}
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		if !filepath.IsLocal(f.Name) {
			return fmt.Errorf("%w: %q", ErrUnsafeArchivePath, f.Name)
		}
		target := filepath.Join(dir, filepath.FromSlash(f.Name))

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case mode.IsRegular():
			if err := extractFile(f, target); err != nil {
				return err
			}
		default:
			slog.Debug("skipping non-regular archive entry", "name", f.Name, "mode", mode)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	perm := f.Mode().Perm() | 0o600
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	n, err := io.Copy(out, io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	if n > maxEntryBytes {
		return fmt.Errorf("extract %s: entry exceeds %d bytes", f.Name, maxEntryBytes)
	}
	return nil
}
