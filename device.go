package micube

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/micube/internal/ble"
	"github.com/SeamusWaldron/micube/internal/protocol"
)

// Device represents a discovered cube.
// Devices are returned by Scan and can be passed to Connect. A Device built
// by hand only needs Address; Connect will scan for it.
type Device struct {
	Name    string // Advertised name (e.g., "GiC12345")
	Address string // MAC address, or a platform UUID on macOS
	RSSI    int16  // Signal strength in dBm

	result  ble.ScanResult
	scanned bool
}

// MiCube is a connected cube. It decodes every state notification into a
// Frame and reports it through callbacks.
//
//	cube, err := micube.ConnectFirst(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cube.Close()
//
//	cube.OnMove(func(m micube.Move) {
//	    fmt.Println("Move:", m)
//	})
//
// A MiCube created with NewOffline has no connection and is fed with
// HandleNotification or HandleCells.
type MiCube struct {
	client *ble.Client
	device Device
	config *config
	logger zerolog.Logger

	mu       sync.RWMutex
	frame    *Frame
	solved   bool
	hasFrame bool

	// Callbacks
	onFrame      func(*Frame)
	onMove       func(Move)
	onSolved     func()
	onBattery    func(int)
	onDisconnect func(error)
	onError      func(error)
}

// Scan discovers nearby cubes whose name matches the configured prefix.
// Returns all devices found within the timeout period.
//
// Ensure the cube is not connected to another device (e.g., the phone app).
func Scan(ctx context.Context, timeout time.Duration, opts ...Option) ([]Device, error) {
	cfg := newConfig(opts)

	client, err := ble.NewClient(cfg.logger)
	if err != nil {
		return nil, err
	}
	defer client.Disconnect()

	results, err := client.Scan(ctx, timeout, cfg.namePrefix)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, len(results))
	for i, r := range results {
		devices[i] = Device{
			Name:    r.Name,
			Address: r.Address,
			RSSI:    r.RSSI,
			result:  r,
			scanned: true,
		}
	}

	return devices, nil
}

// Connect connects to a specific cube.
func Connect(ctx context.Context, device Device, opts ...Option) (*MiCube, error) {
	cfg := newConfig(opts)

	client, err := ble.NewClient(cfg.logger)
	if err != nil {
		return nil, err
	}

	m := newMiCube(cfg)
	m.client = client
	client.SetStateCallback(func(data []byte) { _ = m.HandleNotification(data) })
	client.SetBatteryCallback(m.handleBattery)
	client.SetDisconnectCallback(m.handleDisconnect)

	if device.scanned {
		err = client.ConnectToResult(ctx, device.result, cfg.connectRetries)
	} else {
		err = client.Connect(ctx, device.Address, cfg.connectRetries)
	}
	if err != nil {
		return nil, connectError(err)
	}

	device.Address = client.Address()
	if device.Name == "" {
		device.Name = client.DeviceName()
	}
	m.device = device

	if cfg.battery {
		if err := client.RequestBattery(); err != nil {
			m.logger.Warn().Err(err).Msg("battery request failed")
		}
	}

	return m, nil
}

func connectError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ble.ErrDeviceNotFound):
		return fmt.Errorf("%w: %v", ErrDeviceNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
}

// ConnectAddress connects to the cube with the given address.
func ConnectAddress(ctx context.Context, address string, opts ...Option) (*MiCube, error) {
	return Connect(ctx, Device{Address: address}, opts...)
}

// ConnectFirst scans and connects to the first cube found.
// For setups with several cubes, use Scan and Connect separately.
func ConnectFirst(ctx context.Context, opts ...Option) (*MiCube, error) {
	cfg := newConfig(opts)

	devices, err := Scan(ctx, cfg.scanTimeout, opts...)
	if err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		return nil, ErrDeviceNotFound
	}

	return Connect(ctx, devices[0], opts...)
}

// NewOffline returns a MiCube without a BLE connection. Frames are fed with
// HandleNotification or HandleCells, e.g. from a capture or a test.
func NewOffline(opts ...Option) *MiCube {
	return newMiCube(newConfig(opts))
}

func newMiCube(cfg *config) *MiCube {
	return &MiCube{
		config: cfg,
		logger: cfg.logger.With().Str("component", "micube").Logger(),
	}
}

// Close disconnects from the cube.
func (m *MiCube) Close() error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect()
}

// IsConnected returns true if still connected to the cube.
func (m *MiCube) IsConnected() bool {
	return m.client != nil && m.client.IsConnected()
}

// Device returns the connected device.
func (m *MiCube) Device() Device {
	return m.device
}

// Event callbacks

// OnFrame sets a callback that fires for every decoded frame.
func (m *MiCube) OnFrame(cb func(*Frame)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFrame = cb
}

// OnMove sets a callback that fires for each move the cube reports.
func (m *MiCube) OnMove(cb func(Move)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMove = cb
}

// OnSolved sets a callback that fires when the cube goes from unsolved to
// solved. The first frame after connecting only establishes the starting state.
func (m *MiCube) OnSolved(cb func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSolved = cb
}

// OnBattery sets a callback for battery level updates.
func (m *MiCube) OnBattery(cb func(int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onBattery = cb
}

// OnDisconnect sets a callback for disconnection events.
func (m *MiCube) OnDisconnect(cb func(error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDisconnect = cb
}

// OnError sets a callback for notifications that could not be decoded.
// Such notifications never change the current state.
func (m *MiCube) OnError(cb func(error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = cb
}

// State access

// Frame returns a copy of the last decoded frame, and false if no frame has
// arrived yet.
func (m *MiCube) Frame() (Frame, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasFrame {
		return Frame{}, false
	}
	return *m.frame, true
}

// Cube returns the last reported cube state, or the solved cube if no frame
// has arrived yet.
func (m *MiCube) Cube() Cube {
	if f, ok := m.Frame(); ok {
		return f.Cube
	}
	return NewCube()
}

// IsSolved returns true if the last reported state is solved.
func (m *MiCube) IsSolved() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.solved
}

// Battery returns the last known battery level (0-100), or -1 if unknown.
func (m *MiCube) Battery() int {
	if m.client == nil {
		return -1
	}
	return m.client.Battery()
}

// RequestBattery asks the cube for its battery level.
func (m *MiCube) RequestBattery() error {
	if !m.IsConnected() {
		return ErrNotConnected
	}
	return m.client.RequestBattery()
}

// Notification handling

// HandleNotification decodes a raw 20-byte state notification, decrypting it
// if needed, and applies the result.
func (m *MiCube) HandleNotification(data []byte) error {
	n, err := protocol.ParseNotification(data)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		m.reportError(err)
		return err
	}
	m.logger.Trace().Bool("encrypted", n.Encrypted).Str("raw", n.RawBase64).Msg("notification")
	return m.HandleCells(n.Cells[:])
}

// HandleCells decodes 36 plaintext half-byte cells and applies the result.
func (m *MiCube) HandleCells(cells []byte) error {
	f, err := DecodeFrame(cells)
	if err != nil {
		m.reportError(err)
		return err
	}
	m.apply(f)
	return nil
}

func (m *MiCube) reportError(err error) {
	m.logger.Warn().Err(err).Msg("dropping notification")

	m.mu.RLock()
	cb := m.onError
	m.mu.RUnlock()

	if cb != nil {
		cb(err)
	}
}

func (m *MiCube) apply(f *Frame) {
	solved := f.Cube.IsSolved()

	m.mu.Lock()
	first := !m.hasFrame
	repeated := !first && m.frame.Raw == f.Raw
	becameSolved := !first && solved && !m.solved
	m.frame = f
	m.hasFrame = true
	m.solved = solved
	frameCallback := m.onFrame
	moveCallback := m.onMove
	solvedCallback := m.onSolved
	m.mu.Unlock()

	m.logger.Debug().
		Str("move", f.Move.Notation()).
		Str("prev", f.PrevMove.Notation()).
		Bool("solved", solved).
		Msg("frame")

	// Fire callbacks outside the lock
	if frameCallback != nil {
		fc := *f
		frameCallback(&fc)
	}
	if moveCallback != nil && !repeated && !f.Move.IsZero() {
		moveCallback(f.Move)
	}
	if becameSolved && solvedCallback != nil {
		solvedCallback()
	}
}

func (m *MiCube) handleBattery(level int) {
	m.logger.Debug().Int("battery", level).Msg("battery level")

	m.mu.RLock()
	cb := m.onBattery
	m.mu.RUnlock()

	if cb != nil {
		cb(level)
	}
}

func (m *MiCube) handleDisconnect() {
	m.mu.RLock()
	cb := m.onDisconnect
	m.mu.RUnlock()

	if cb != nil {
		cb(fmt.Errorf("%w: connection lost", ErrNotConnected))
	}
}
