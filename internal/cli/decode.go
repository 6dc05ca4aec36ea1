package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/micube"
	"github.com/SeamusWaldron/micube/internal/protocol"
)

var (
	decodePlain bool
	decodeJSON  bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode a captured state frame",
	Long: `Decode a state frame and print the cube.

The input is either 36 hex digits, one per frame cell (the decrypted frame),
or 40 hex digits holding a raw 20-byte notification as sent by the cube.
Encrypted notifications are decrypted first. Spaces, colons and dashes are
ignored, so the frame may be given as several arguments.

Example:
  micube decode 12345678 33333333 123456789ABC 000 0 6130`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().BoolVar(&decodePlain, "plain", false, "Print the net without colors")
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "Print the decoded frame as JSON")
	rootCmd.AddCommand(decodeCmd)
}

// decodedFrame is the JSON form of a decoded frame.
type decodedFrame struct {
	Hex       string              `json:"hex"`
	Encrypted bool                `json:"encrypted"`
	Solved    bool                `json:"solved"`
	Move      string              `json:"move"`
	PrevMove  string              `json:"prev_move"`
	Faces     map[string][]string `json:"faces"`
}

func runDecode(cmd *cobra.Command, args []string) error {
	cells, encrypted, err := parseFrameHex(strings.Join(args, ""))
	if err != nil {
		return err
	}

	f, err := micube.DecodeFrame(cells)
	if err != nil {
		return err
	}

	logger.Debug().Bool("encrypted", encrypted).Str("hex", f.Hex()).Msg("decoded frame")

	out := cmd.OutOrStdout()
	if decodeJSON {
		return writeFrameJSON(out, f, encrypted)
	}
	writeFrame(out, f, encrypted, decodePlain)
	return nil
}

// parseFrameHex turns user input into 36 frame cells. It reports whether the
// input was an encrypted notification.
func parseFrameHex(s string) ([]byte, bool, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' || r == '-' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	switch len(s) {
	case micube.FrameSize:
		cells := make([]byte, micube.FrameSize)
		for i, r := range s {
			v, err := hexDigit(r)
			if err != nil {
				return nil, false, fmt.Errorf("invalid hex digit at position %d: %w", i, err)
			}
			cells[i] = v
		}
		return cells, false, nil

	case protocol.NotificationSize * 2:
		data, err := hex.DecodeString(s)
		if err != nil {
			return nil, false, fmt.Errorf("invalid notification: %w", err)
		}
		n, err := protocol.ParseNotification(data)
		if err != nil {
			return nil, false, err
		}
		return n.Cells[:], n.Encrypted, nil

	default:
		return nil, false, fmt.Errorf("expected %d or %d hex digits, got %d",
			micube.FrameSize, protocol.NotificationSize*2, len(s))
	}
}

func hexDigit(r rune) (byte, error) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), nil
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, nil
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, nil
	}
	return 0, fmt.Errorf("%q", r)
}

func writeFrame(w io.Writer, f *micube.Frame, encrypted, plain bool) {
	fmt.Fprintf(w, "Frame: %s", f.Hex())
	if encrypted {
		fmt.Fprint(w, " (decrypted)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	fmt.Fprint(w, renderNet(f.Cube, plain))
	fmt.Fprintln(w)

	if f.Cube.IsSolved() {
		fmt.Fprintln(w, "Solved: yes")
	} else {
		fmt.Fprintln(w, "Solved: no")
	}
	fmt.Fprintf(w, "Move: %s (previous: %s)\n", f.Move.Notation(), f.PrevMove.Notation())
}

func writeFrameJSON(w io.Writer, f *micube.Frame, encrypted bool) error {
	out := decodedFrame{
		Hex:       f.Hex(),
		Encrypted: encrypted,
		Solved:    f.Cube.IsSolved(),
		Move:      f.Move.Notation(),
		PrevMove:  f.PrevMove.Notation(),
		Faces:     make(map[string][]string, len(micube.AllFaces)),
	}

	for _, face := range micube.AllFaces {
		grid := f.Cube.FaceColors(face)
		rows := make([]string, 3)
		for row := 0; row < 3; row++ {
			rows[row] = grid[row][0].String() + grid[row][1].String() + grid[row][2].String()
		}
		out.Faces[face.String()] = rows
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
