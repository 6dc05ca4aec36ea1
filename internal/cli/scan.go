package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/micube"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for nearby cubes",
	Long: `Scan over Bluetooth for cubes whose advertised name matches the prefix
and list them with their address and signal strength.`,
	RunE: runScan,
}

func init() {
	addDeviceFlags(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	devices, err := scanForCubes(ctx)
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		printWakeTips()
		return nil
	}

	fmt.Printf("Found %d device(s):\n", len(devices))
	for _, d := range devices {
		fmt.Printf("  - %s (Address: %s, RSSI: %d)\n", d.Name, d.Address, d.RSSI)
	}

	return nil
}

// scanForCubes runs one scan with the configured prefix and timeout.
func scanForCubes(ctx context.Context) ([]micube.Device, error) {
	fmt.Printf("Scanning for cubes (%s)...\n", cfg.Device.ScanTimeout)

	devices, err := micube.Scan(ctx, cfg.Device.ScanTimeout, deviceOptions(logger)...)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return devices, nil
}

func printWakeTips() {
	fmt.Println("No cubes found")
	fmt.Println()
	fmt.Println("Tips:")
	fmt.Println("  - Rotate the cube to wake it up")
	fmt.Println("  - Make sure it's not connected to your phone")
	fmt.Println("  - Check that Bluetooth is enabled")
}
