package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/smazurov/camview/internal/devices"
	"github.com/spf13/cobra"
)

// CreateDevicesCmd creates the devices command, which lists cameras.
func CreateDevicesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List video capture devices",
		Long:  `Enumerate /sys/class/video4linux and list every node that can be opened as a capture device.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			found, err := devices.FindDevices()
			if err != nil {
				return err
			}
			return printDevices(cmd.OutOrStdout(), found, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print devices as JSON")
	return cmd
}

func printDevices(out io.Writer, found []devices.DeviceInfo, asJSON bool) error {
	if asJSON {
		if found == nil {
			found = []devices.DeviceInfo{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}

	if len(found) == 0 {
		fmt.Fprintln(out, "No capture devices found")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tPATH\tNAME\tID")
	for _, d := range found {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.Index, d.DevicePath, d.DeviceName, d.DeviceID)
	}
	return tw.Flush()
}
