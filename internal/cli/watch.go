package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/micube"
	"github.com/SeamusWaldron/micube/internal/logging"
	"github.com/SeamusWaldron/micube/internal/recorder"
	"github.com/SeamusWaldron/micube/internal/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Connect to a cube and show it live",
	Long: `Connect to a cube and show its sticker net, moves and battery level as
it is turned. The connection is recorded as a session in the database.

Keyboard shortcuts:
  b       - Request the battery level
  c       - Clear the move list
  q/Esc   - Quit`,
	RunE: runWatch,
}

func init() {
	addDeviceFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

// maxShownMoves bounds the move list in the view.
const maxShownMoves = 20

// Messages
type frameMsg struct{ frame *micube.Frame }
type moveMsg struct{ move micube.Move }
type solvedMsg struct{}
type batteryMsg struct{ level int }
type disconnectedMsg struct{ err error }
type decodeErrMsg struct{ err error }
type tickMsg time.Time

// Model
type watchModel struct {
	cube    *micube.MiCube
	session *recorder.Session
	events  chan tea.Msg

	// Cube state
	frame   *micube.Frame
	moves   []micube.Move
	battery int
	solves  int
	solved  time.Time // when the cube last became solved

	// UI
	started   time.Time
	elapsed   time.Duration
	connected bool
	err       error
	quitting  bool
}

func newWatchModel(cube *micube.MiCube, session *recorder.Session) *watchModel {
	m := &watchModel{
		cube:      cube,
		session:   session,
		events:    make(chan tea.Msg, 100),
		battery:   cube.Battery(),
		started:   time.Now(),
		connected: true,
	}

	cube.OnFrame(func(f *micube.Frame) { m.send(frameMsg{frame: f}) })
	cube.OnMove(func(mv micube.Move) { m.send(moveMsg{move: mv}) })
	cube.OnSolved(func() { m.send(solvedMsg{}) })
	cube.OnBattery(func(level int) { m.send(batteryMsg{level: level}) })
	cube.OnDisconnect(func(err error) { m.send(disconnectedMsg{err: err}) })
	cube.OnError(func(err error) { m.send(decodeErrMsg{err: err}) })

	return m
}

// send hands an event to the UI, dropping it if the UI is behind.
func (m *watchModel) send(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(
		m.listenForEvents(),
		m.tickCmd(),
	)
}

func (m *watchModel) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *watchModel) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "b":
			if err := m.cube.RequestBattery(); err != nil {
				m.err = err
			}

		case "c":
			m.moves = nil
		}
		return m, nil

	case tickMsg:
		m.elapsed = time.Since(m.started)
		return m, m.tickCmd()

	case frameMsg:
		m.frame = msg.frame
		if err := m.session.HandleFrame(msg.frame); err != nil {
			m.err = err
		}

	case moveMsg:
		m.moves = append(m.moves, msg.move)
		if len(m.moves) > maxShownMoves {
			m.moves = m.moves[len(m.moves)-maxShownMoves:]
		}

	case solvedMsg:
		m.solves++
		m.solved = time.Now()

	case batteryMsg:
		m.battery = msg.level
		if err := m.session.HandleBattery(msg.level); err != nil {
			m.err = err
		}

	case disconnectedMsg:
		m.connected = false
		m.err = msg.err

	case decodeErrMsg:
		m.err = msg.err

	default:
		return m, nil
	}

	return m, m.listenForEvents()
}

func (m *watchModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("micube"))
	b.WriteString("\n\n")

	// Connection status
	device := m.cube.Device()
	if m.connected {
		status := fmt.Sprintf("Connected: %s (%s)", device.Name, device.Address)
		if m.battery >= 0 {
			status += fmt.Sprintf(" Battery: %d%%", m.battery)
		}
		b.WriteString(statusStyle.Render(status))
	} else {
		b.WriteString(errorStyle.Render("Disconnected - run again to reconnect"))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("Session: %s", formatElapsed(m.elapsed))))
	b.WriteString("\n\n")

	if m.frame == nil {
		b.WriteString("Waiting for the first state - turn any face\n")
	} else {
		b.WriteString(renderNet(m.frame.Cube, false))
		b.WriteString("\n")

		if m.frame.Cube.IsSolved() {
			b.WriteString(solvedStyle.Render("SOLVED"))
			if !m.solved.IsZero() && time.Since(m.solved) < 5*time.Second {
				b.WriteString(solvedStyle.Render("!"))
			}
		} else {
			b.WriteString(statusStyle.Render("Scrambled"))
		}
		b.WriteString(fmt.Sprintf("  Solves: %d\n", m.solves))
		b.WriteString(fmt.Sprintf("Last move: %s (previous: %s)\n",
			moveStyle.Render(m.frame.Move.Notation()), m.frame.PrevMove.Notation()))
	}

	// Recent moves
	if len(m.moves) > 0 {
		notations := make([]string, len(m.moves))
		for i, mv := range m.moves {
			notations[i] = mv.Notation()
		}
		b.WriteString("Moves: ")
		b.WriteString(moveStyle.Render(strings.Join(notations, " ")))
		b.WriteString("\n")
	}

	// Error
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Keys: b=battery  c=clear moves  q=quit"))
	b.WriteString("\n")

	return b.String()
}

func runWatch(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// The TUI owns the terminal, so logs go to a file next to the database.
	watchLogger, closeLog, err := openWatchLog(db)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Connect BEFORE starting the TUI
	cube, err := connectCube(ctx, watchLogger)
	if err != nil {
		return err
	}
	defer cube.Close()
	stop()

	session := recorder.NewSession(db, watchLogger)
	if _, err := session.Start(cube.Device()); err != nil {
		return err
	}

	model := newWatchModel(cube, session)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, runErr := p.Run()

	if err := session.End(); err != nil {
		logger.Warn().Err(err).Msg("failed to end session")
	}

	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}

	frames, moves, solves := session.Counts()
	fmt.Printf("Session %s: %d frames, %d moves, %d solves\n", session.SessionID(), frames, moves, solves)
	return nil
}

// connectCube connects to the configured address, or to the first cube found.
func connectCube(ctx context.Context, l zerolog.Logger) (*micube.MiCube, error) {
	opts := deviceOptions(l)

	if cfg.Device.Address != "" {
		fmt.Printf("Connecting to %s...\n", cfg.Device.Address)
		return micube.ConnectAddress(ctx, cfg.Device.Address, opts...)
	}

	devices, err := scanForCubes(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		printWakeTips()
		return nil, micube.ErrDeviceNotFound
	}

	fmt.Printf("Connecting to %s...\n", devices[0].Name)
	return micube.Connect(ctx, devices[0], opts...)
}

func openWatchLog(db *storage.DB) (zerolog.Logger, func(), error) {
	path := filepath.Join(filepath.Dir(db.Path()), "watch.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	fmt.Printf("Logging to %s\n", path)
	return logging.New(f, cfg.Log.Level, false), func() { f.Close() }, nil
}
