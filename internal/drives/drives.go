// Package drives lists block devices and mounts them through
// udisksctl. Listing parses `lsblk -J`; the JSON shape varies between
// util-linux versions (booleans were strings before 2.37), so the
// decoder accepts both.
package drives

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/deskmux/deskmux/internal/errors"
	"github.com/deskmux/deskmux/internal/logging"
	"github.com/deskmux/deskmux/internal/run"
)

// Device is one block device or partition.
type Device struct {
	Name       string
	Path       string
	Size       string
	FSType     string
	Label      string
	Mountpoint string
	Removable  bool
}

// Mounted reports whether the device currently has a mountpoint.
func (d Device) Mounted() bool { return d.Mountpoint != "" }

// flexBool decodes lsblk's removable flag, which is true/false on
// modern util-linux and "0"/"1" on older releases.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*b = flexBool(s == "true" || s == "1")
	return nil
}

type lsblkDevice struct {
	Name       string        `json:"name"`
	Path       string        `json:"path"`
	Size       string        `json:"size"`
	FSType     string        `json:"fstype"`
	Label      string        `json:"label"`
	Mountpoint string        `json:"mountpoint"`
	RM         flexBool      `json:"rm"`
	Children   []lsblkDevice `json:"children"`
}

type lsblkOutput struct {
	BlockDevices []lsblkDevice `json:"blockdevices"`
}

// Manager lists and mounts drives.
type Manager struct {
	runner        run.Runner
	log           *logging.Logger
	removableOnly bool
}

// NewManager builds a drive manager. With removableOnly set, List only
// reports removable devices and their partitions, which is the sane
// default for a mount helper that should not touch the system disk.
func NewManager(runner run.Runner, removableOnly bool, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Manager{runner: runner, removableOnly: removableOnly, log: log.WithComponent("drives")}
}

// List returns block devices that carry a filesystem.
func (m *Manager) List(ctx context.Context) ([]Device, error) {
	if _, err := m.runner.LookPath("lsblk"); err != nil {
		return nil, errors.Wrap(errors.Join(errors.ErrExternalTool, err), "lsblk not installed")
	}

	out, err := m.runner.Output(ctx, "lsblk", "-J", "-o", "NAME,PATH,SIZE,FSTYPE,LABEL,MOUNTPOINT,RM")
	if err != nil {
		return nil, errors.Wrap(errors.Join(errors.ErrExternalTool, err), "lsblk failed")
	}

	var parsed lsblkOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, errors.Wrap(err, "parsing lsblk output")
	}

	var devices []Device
	for _, d := range parsed.BlockDevices {
		devices = m.collect(devices, d, bool(d.RM))
	}
	return devices, nil
}

// collect flattens the lsblk tree. A partition inherits removability
// from its parent disk; lsblk reports rm=0 on many removable
// partitions.
func (m *Manager) collect(devices []Device, d lsblkDevice, removable bool) []Device {
	removable = removable || bool(d.RM)

	if d.FSType != "" && (!m.removableOnly || removable) {
		devices = append(devices, Device{
			Name:       d.Name,
			Path:       d.Path,
			Size:       d.Size,
			FSType:     d.FSType,
			Label:      d.Label,
			Mountpoint: d.Mountpoint,
			Removable:  removable,
		})
	}
	for _, child := range d.Children {
		devices = m.collect(devices, child, removable)
	}
	return devices
}

// Mount mounts the device and returns its mountpoint. udisksctl picks
// the mountpoint itself (under /run/media or /media); with udisksctl
// absent, plain mount is tried, which only works for fstab entries and
// reports no mountpoint.
func (m *Manager) Mount(ctx context.Context, devPath string) (string, error) {
	if _, err := m.runner.LookPath("udisksctl"); err == nil {
		out, err := m.runner.CombinedOutput(ctx, "udisksctl", "mount", "-b", devPath)
		if err != nil {
			return "", errors.Wrapf(errors.Join(errors.ErrExternalTool, err), "mounting %s", devPath)
		}
		m.log.Info("mounted", "device", devPath)
		return parseMountpoint(out), nil
	}

	if _, err := m.runner.CombinedOutput(ctx, "mount", devPath); err != nil {
		return "", errors.Wrapf(errors.Join(errors.ErrExternalTool, err), "mounting %s", devPath)
	}
	m.log.Info("mounted via fstab", "device", devPath)
	return "", nil
}

// Unmount unmounts the device.
func (m *Manager) Unmount(ctx context.Context, devPath string) error {
	if _, err := m.runner.LookPath("udisksctl"); err == nil {
		if _, err := m.runner.CombinedOutput(ctx, "udisksctl", "unmount", "-b", devPath); err != nil {
			return errors.Wrapf(errors.Join(errors.ErrExternalTool, err), "unmounting %s", devPath)
		}
		m.log.Info("unmounted", "device", devPath)
		return nil
	}

	if _, err := m.runner.CombinedOutput(ctx, "umount", devPath); err != nil {
		return errors.Wrapf(errors.Join(errors.ErrExternalTool, err), "unmounting %s", devPath)
	}
	m.log.Info("unmounted via umount", "device", devPath)
	return nil
}

// parseMountpoint extracts the path from udisksctl's human-oriented
// "Mounted /dev/sdb1 at /run/media/user/STICK" line.
func parseMountpoint(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if _, after, ok := strings.Cut(line, " at "); ok {
			return strings.TrimSuffix(strings.TrimSpace(after), ".")
		}
	}
	return ""
}
