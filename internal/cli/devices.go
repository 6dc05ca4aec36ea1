package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/micube/internal/storage"
)

var devicesLimit int

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List known cubes and their recent sessions",
	Long:  `Show every cube that has been connected, its last battery level and its most recent sessions.`,
	RunE:  runDevices,
}

func init() {
	devicesCmd.Flags().IntVarP(&devicesLimit, "limit", "n", 5, "Sessions to show per device")
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return listDevices(cmd.OutOrStdout(), db, devicesLimit)
}

func listDevices(w io.Writer, db *storage.DB, limit int) error {
	devices, err := storage.NewDeviceRepository(db).List()
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Fprintln(w, "No devices yet. Run 'micube watch' to connect a cube.")
		return nil
	}

	sessionRepo := storage.NewSessionRepository(db)
	for i, d := range devices {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%s (%s)\n", d.Name, d.Address)
		if d.Battery != nil {
			fmt.Fprintf(w, "  Battery:   %d%%\n", *d.Battery)
		}
		fmt.Fprintf(w, "  Last seen: %s\n", d.LastSeenAt.Local().Format(time.DateTime))

		sessions, err := sessionRepo.ListByDevice(d.Address, limit)
		if err != nil {
			return err
		}
		for _, s := range sessions {
			fmt.Fprintf(w, "  %s  %s  frames=%d solves=%d\n",
				s.StartedAt.Local().Format(time.DateTime), formatDuration(s.DurationMs), s.FrameCount, s.SolvedCount)
		}
	}

	return nil
}

// formatDuration formats a session duration, or "active" for a session that
// has not ended.
func formatDuration(ms *int64) string {
	if ms == nil {
		return "active"
	}
	return formatElapsed(time.Duration(*ms) * time.Millisecond)
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%d:%05.2f", mins, secs)
}
