package drives

import (
	"context"
	"testing"

	"github.com/deskmux/deskmux/internal/errors"
	"github.com/deskmux/deskmux/internal/run"
)

const lsblkCmd = "lsblk -J -o NAME,PATH,SIZE,FSTYPE,LABEL,MOUNTPOINT,RM"

const lsblkModern = `{
  "blockdevices": [
    {"name": "sda", "path": "/dev/sda", "size": "512G", "fstype": null, "rm": false,
     "children": [
       {"name": "sda1", "path": "/dev/sda1", "size": "512G", "fstype": "ext4", "mountpoint": "/", "rm": false}
     ]},
    {"name": "sdb", "path": "/dev/sdb", "size": "32G", "fstype": null, "rm": true,
     "children": [
       {"name": "sdb1", "path": "/dev/sdb1", "size": "32G", "fstype": "vfat", "label": "STICK", "rm": false}
     ]}
  ]
}`

// Older util-linux emits rm as the strings "0" and "1".
const lsblkLegacy = `{
  "blockdevices": [
    {"name": "sdb", "path": "/dev/sdb", "size": "32G", "fstype": "vfat", "rm": "1"}
  ]
}`

func TestListAllDevices(t *testing.T) {
	f := run.NewFakeRunner()
	f.Respond(lsblkCmd, lsblkModern, nil)

	devices, err := NewManager(f, false, nil).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("List() = %d devices, want 2 (only those with a filesystem)", len(devices))
	}
	if devices[0].Path != "/dev/sda1" || devices[0].Removable {
		t.Errorf("devices[0] = %+v", devices[0])
	}
	if !devices[0].Mounted() {
		t.Error("sda1 has a mountpoint, Mounted() should be true")
	}
	if devices[1].Label != "STICK" || devices[1].Mounted() {
		t.Errorf("devices[1] = %+v", devices[1])
	}
}

func TestListRemovableOnlyInheritsFromParent(t *testing.T) {
	f := run.NewFakeRunner()
	f.Respond(lsblkCmd, lsblkModern, nil)

	devices, err := NewManager(f, true, nil).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	// sdb1 reports rm=false itself but sits on a removable disk.
	if len(devices) != 1 || devices[0].Path != "/dev/sdb1" {
		t.Errorf("List() = %+v, want only sdb1", devices)
	}
	if !devices[0].Removable {
		t.Error("partition on a removable disk must be removable")
	}
}

func TestListLegacyStringBooleans(t *testing.T) {
	f := run.NewFakeRunner()
	f.Respond(lsblkCmd, lsblkLegacy, nil)

	devices, err := NewManager(f, true, nil).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(devices) != 1 || !devices[0].Removable {
		t.Errorf("List() = %+v, want one removable device", devices)
	}
}

func TestListLsblkMissing(t *testing.T) {
	f := run.NewFakeRunner()
	f.Missing = []string{"lsblk"}

	_, err := NewManager(f, false, nil).List(context.Background())
	if !errors.Is(err, errors.ErrExternalTool) {
		t.Errorf("error = %v, want ErrExternalTool", err)
	}
}

func TestMountParsesMountpoint(t *testing.T) {
	f := run.NewFakeRunner()
	f.Respond("udisksctl mount -b /dev/sdb1", "Mounted /dev/sdb1 at /run/media/user/STICK", nil)

	mp, err := NewManager(f, true, nil).Mount(context.Background(), "/dev/sdb1")
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mp != "/run/media/user/STICK" {
		t.Errorf("mountpoint = %q", mp)
	}
}

func TestMountTrimsTrailingPeriod(t *testing.T) {
	// udisksctl before 2.8 ends the line with a period.
	f := run.NewFakeRunner()
	f.Respond("udisksctl mount -b /dev/sdb1", "Mounted /dev/sdb1 at /media/STICK.", nil)

	mp, err := NewManager(f, true, nil).Mount(context.Background(), "/dev/sdb1")
	if err != nil {
		t.Fatal(err)
	}
	if mp != "/media/STICK" {
		t.Errorf("mountpoint = %q", mp)
	}
}

func TestMountFallsBackToMount(t *testing.T) {
	f := run.NewFakeRunner()
	f.Missing = []string{"udisksctl"}
	f.Respond("mount /dev/sdb1", "", nil)

	mp, err := NewManager(f, true, nil).Mount(context.Background(), "/dev/sdb1")
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mp != "" {
		t.Errorf("fstab mount reports no mountpoint, got %q", mp)
	}
}

func TestUnmount(t *testing.T) {
	f := run.NewFakeRunner()
	f.Respond("udisksctl unmount -b /dev/sdb1", "Unmounted /dev/sdb1.", nil)

	if err := NewManager(f, true, nil).Unmount(context.Background(), "/dev/sdb1"); err != nil {
		t.Fatalf("Unmount() error = %v", err)
	}
}

func TestUnmountFailure(t *testing.T) {
	f := run.NewFakeRunner()
	f.Respond("udisksctl unmount -b /dev/sdb1", "target is busy", errors.New("exit status 1"))

	err := NewManager(f, true, nil).Unmount(context.Background(), "/dev/sdb1")
	if !errors.Is(err, errors.ErrExternalTool) {
		t.Errorf("error = %v, want ErrExternalTool", err)
	}
}
