// Package codec drives an external media-codec binary through a scoped
// virtual filesystem: write inputs, run an argument vector, read outputs,
// clean up. The driver's runtime is process-wide state — every write, run,
// and read is serialized by a single mutex, matching the exclusivity the
// underlying binary requires.
package codec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	rendererrors "github.com/five82/animrender/internal/errors"
	"github.com/five82/animrender/internal/logging"
	"github.com/five82/animrender/internal/util"
)

// Driver owns a lazily constructed VFS rooted under tempRoot and serializes
// every operation against it.
type Driver struct {
	binaryPath string
	tempRoot   string
	logger     *logging.Logger

	mu  sync.Mutex
	vfs *util.TempDir
}

// New creates a driver that will invoke binaryPath and scope its VFS under
// tempRoot. The VFS itself is not created until the first operation. logger
// may be nil, in which case disk-space warnings are silently dropped.
func New(binaryPath, tempRoot string, logger *logging.Logger) *Driver {
	return &Driver{binaryPath: binaryPath, tempRoot: tempRoot, logger: logger}
}

// staleProbeMaxAge is how long an orphaned write-probe file (left behind
// by an EnsureDirectoryWritable check that never got to clean up after
// itself, e.g. the process was killed mid-check) is allowed to sit before
// ensureInit reclaims it on the next driver startup.
const staleProbeMaxAge = 24 * time.Hour

func (d *Driver) ensureInit() error {
	if d.vfs != nil {
		return nil
	}

	root := d.tempRoot
	if root == "" {
		root = os.TempDir()
	}
	if err := util.EnsureDirectoryWritable(root); err != nil {
		return rendererrors.NewCodecRunFailedError("codec temp root is not usable", err)
	}
	if n, err := util.CleanupStaleTempFiles(root, ".write_probe", staleProbeMaxAge); err == nil && n > 0 {
		d.debugf("reclaimed %d stale write-probe file(s) under %s", n, root)
	}

	vfs, err := util.CreateTempDir(root, "animrender-vfs")
	if err != nil {
		return rendererrors.NewCodecRunFailedError("failed to initialize codec VFS", err)
	}
	d.vfs = vfs
	return nil
}

// Write places data at name under the VFS root, initializing it on first
// use. Checks available disk space ahead of the write and logs a warning
// (never fails the write) when the VFS filesystem is running low.
func (d *Driver) Write(name string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureInit(); err != nil {
		return err
	}
	util.CheckDiskSpace(d.vfs.Path(), d.debugf)
	return os.WriteFile(filepath.Join(d.vfs.Path(), name), data, 0644)
}

func (d *Driver) debugf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(fmt.Sprintf(format, args...))
	}
}

// Read returns the full contents of name under the VFS root. Fails with
// CodecNotInitialized if the VFS has never been written to.
func (d *Driver) Read(name string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vfs == nil {
		return nil, rendererrors.NewCodecNotInitializedError()
	}
	return os.ReadFile(filepath.Join(d.vfs.Path(), name))
}

// Unlink removes name from the VFS root. Best-effort: a missing file is not
// an error, matching the driver's "cleanup must not fail the outcome" contract.
func (d *Driver) Unlink(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vfs == nil {
		return nil
	}
	err := os.Remove(filepath.Join(d.vfs.Path(), name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Run invokes the codec binary with args, using the VFS root as the
// working directory so relative input/output names resolve there.
func (d *Driver) Run(ctx context.Context, args []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vfs == nil {
		return rendererrors.NewCodecNotInitializedError()
	}

	cmd := exec.CommandContext(ctx, d.binaryPath, args...)
	cmd.Dir = d.vfs.Path()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return rendererrors.WrapExecError(d.binaryPath, err, stderr.String())
	}
	return nil
}

// Close tears down the VFS directory. Safe to call even if the VFS was
// never initialized.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vfs == nil {
		return nil
	}
	return d.vfs.Cleanup()
}
