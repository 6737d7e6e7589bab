package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deskmux/deskmux/internal/config"
	"github.com/deskmux/deskmux/internal/drives"
	"github.com/deskmux/deskmux/internal/run"
)

var mountCmd = &cobra.Command{
	Use:   "mount",
	Short: "List and mount drives",
	Long:  `List block devices and mount or unmount them through udisksctl.`,
}

var mountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List block devices with filesystems",
	RunE:  runMountList,
}

var mountMountCmd = &cobra.Command{
	Use:   "mount <device>",
	Short: "Mount a device",
	Long:  `Mount a device, e.g. "deskmux mount mount /dev/sdb1". The mountpoint is chosen by udisks.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMountMount,
}

var mountUnmountCmd = &cobra.Command{
	Use:   "unmount <device>",
	Short: "Unmount a device",
	Args:  cobra.ExactArgs(1),
	RunE:  runMountUnmount,
}

var mountAll bool

func init() {
	rootCmd.AddCommand(mountCmd)
	mountCmd.AddCommand(mountListCmd)
	mountCmd.AddCommand(mountMountCmd)
	mountCmd.AddCommand(mountUnmountCmd)

	mountListCmd.Flags().BoolVarP(&mountAll, "all", "a", false, "include non-removable devices")
}

func newDriveManager() *drives.Manager {
	cfg := config.Get()
	removableOnly := cfg.Drives.RemovableOnly && !mountAll
	return drives.NewManager(run.NewExec(), removableOnly, newLogger(cfg))
}

func runMountList(cmd *cobra.Command, args []string) error {
	devices, err := newDriveManager().List(cmd.Context())
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("no devices")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DEVICE\tSIZE\tTYPE\tLABEL\tMOUNTPOINT")
	for _, d := range devices {
		mp := d.Mountpoint
		if mp == "" {
			mp = "-"
		}
		label := d.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Path, d.Size, d.FSType, label, mp)
	}
	return w.Flush()
}

func runMountMount(cmd *cobra.Command, args []string) error {
	mountpoint, err := newDriveManager().Mount(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if mountpoint != "" {
		fmt.Printf("mounted %s at %s\n", args[0], mountpoint)
	} else {
		fmt.Printf("mounted %s\n", args[0])
	}
	return nil
}

func runMountUnmount(cmd *cobra.Command, args []string) error {
	if err := newDriveManager().Unmount(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("unmounted %s\n", args[0])
	return nil
}
