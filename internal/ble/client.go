// Package ble provides low-level BLE communication with Giiker cubes.
package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"tinygo.org/x/bluetooth"

	"github.com/SeamusWaldron/micube/internal/protocol"
)

// Errors
var (
	ErrNotConnected     = errors.New("ble: not connected to device")
	ErrAlreadyConnected = errors.New("ble: already connected to a device")
	ErrDeviceNotFound   = errors.New("ble: device not found")
	ErrServiceNotFound  = errors.New("ble: cube service not found")
)

// DefaultScanTimeout bounds the scan that resolves an address before connecting.
const DefaultScanTimeout = 30 * time.Second

// BLE UUIDs
var (
	dataServiceUUID = mustParseUUID(protocol.DataServiceUUID)
	dataCharUUID    = mustParseUUID(protocol.DataCharUUID)
	rwServiceUUID   = mustParseUUID(protocol.RWServiceUUID)
	rwReadCharUUID  = mustParseUUID(protocol.RWReadCharUUID)
	rwWriteCharUUID = mustParseUUID(protocol.RWWriteCharUUID)
)

func mustParseUUID(s string) bluetooth.UUID {
	return bluetooth.NewUUID(uuid.MustParse(s))
}

// ScanResult represents a discovered cube.
type ScanResult struct {
	Name    string
	Address string
	RSSI    int16

	addr bluetooth.Address
}

// Client manages the BLE connection to one cube. All connection state lives
// in the Client; there is no package-level device state.
type Client struct {
	adapter *bluetooth.Adapter
	logger  zerolog.Logger

	mu         sync.RWMutex
	device     bluetooth.Device
	dataChar   bluetooth.DeviceCharacteristic
	writeChar  bluetooth.DeviceCharacteristic
	hasRW      bool
	connected  bool
	deviceName string
	address    string
	battery    int

	onState      func([]byte)
	onBattery    func(int)
	onDisconnect func()
}

// NewClient creates a new BLE client and enables the default adapter.
func NewClient(logger zerolog.Logger) (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}

	c := &Client{
		adapter: adapter,
		logger:  logger.With().Str("component", "ble").Logger(),
		battery: -1,
	}
	adapter.SetConnectHandler(c.handleConnect)

	return c, nil
}

// SetStateCallback sets the callback for raw state notifications.
func (c *Client) SetStateCallback(cb func([]byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onState = cb
}

// SetBatteryCallback sets the callback for battery level replies.
func (c *Client) SetBatteryCallback(cb func(int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onBattery = cb
}

// SetDisconnectCallback sets the callback for disconnection events.
func (c *Client) SetDisconnectCallback(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnect = cb
}

// MatchesPrefix reports whether an advertised name starts with prefix,
// ignoring case. An empty prefix matches every named device.
func MatchesPrefix(name, prefix string) bool {
	if name == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix))
}

// Scan scans for cubes whose advertised name starts with prefix until timeout
// expires or ctx is done.
func (c *Client) Scan(ctx context.Context, timeout time.Duration, prefix string) ([]ScanResult, error) {
	return c.scan(ctx, timeout, func(r ScanResult) bool {
		return MatchesPrefix(r.Name, prefix)
	}, false)
}

// scan collects unique results accepted by keep. With stopOnFirst the scan
// ends at the first accepted result.
func (c *Client) scan(ctx context.Context, timeout time.Duration, keep func(ScanResult) bool, stopOnFirst bool) ([]ScanResult, error) {
	c.mu.RLock()
	if c.connected {
		c.mu.RUnlock()
		return nil, ErrAlreadyConnected
	}
	c.mu.RUnlock()

	var results []ScanResult
	var mu sync.Mutex
	seen := make(map[string]bool)

	first := make(chan struct{})
	var firstOnce sync.Once
	done := make(chan error, 1)

	go func() {
		done <- c.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			r := ScanResult{
				Name:    result.LocalName(),
				Address: result.Address.String(),
				RSSI:    result.RSSI,
				addr:    result.Address,
			}

			mu.Lock()
			defer mu.Unlock()
			if seen[r.Address] || !keep(r) {
				return
			}
			seen[r.Address] = true
			results = append(results, r)
			c.logger.Debug().Str("name", r.Name).Str("address", r.Address).Int16("rssi", r.RSSI).Msg("found cube")

			if stopOnFirst {
				firstOnce.Do(func() { close(first) })
			}
		})
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var scanErr error
	select {
	case <-timer.C:
	case <-first:
	case <-ctx.Done():
	case scanErr = <-done:
		// Scan ended on its own, usually because the adapter refused it.
		done = nil
	}

	if done != nil {
		c.adapter.StopScan()
		scanErr = <-done
	}
	if scanErr != nil {
		return nil, fmt.Errorf("scan failed: %w", scanErr)
	}

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

// Connect resolves address with a scan and connects to it, trying up to
// retries times.
func (c *Client) Connect(ctx context.Context, address string, retries int) error {
	results, err := c.scan(ctx, DefaultScanTimeout, func(r ScanResult) bool {
		return strings.EqualFold(r.Address, address)
	}, true)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, address)
	}

	return c.ConnectToResult(ctx, results[0], retries)
}

// ConnectToResult connects directly to a device from a scan result, trying up
// to retries times.
func (c *Client) ConnectToResult(ctx context.Context, result ScanResult, retries int) error {
	c.mu.RLock()
	if c.connected {
		c.mu.RUnlock()
		return ErrAlreadyConnected
	}
	c.mu.RUnlock()

	log := c.logger.With().Str("address", result.Address).Logger()

	var device bluetooth.Device
	err := Retry(ctx, retries, func(attempt int) error {
		var err error
		device, err = c.adapter.Connect(result.addr, bluetooth.ConnectionParams{})
		if err != nil {
			log.Debug().Err(err).Int("attempt", attempt).Msg("connect attempt failed")
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	dataChar, err := findCharacteristic(device, dataServiceUUID, dataCharUUID)
	if err != nil {
		device.Disconnect()
		return err
	}

	if err := dataChar.EnableNotifications(c.handleState); err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to enable notifications: %w", err)
	}

	// The RW service only carries battery replies; a cube without it still works.
	readChar, rwErr := findCharacteristic(device, rwServiceUUID, rwReadCharUUID)
	var writeChar bluetooth.DeviceCharacteristic
	if rwErr == nil {
		writeChar, rwErr = findCharacteristic(device, rwServiceUUID, rwWriteCharUUID)
	}
	if rwErr == nil {
		rwErr = readChar.EnableNotifications(c.handleRW)
	}
	if rwErr != nil {
		log.Warn().Err(rwErr).Msg("battery service unavailable")
	}

	c.mu.Lock()
	c.device = device
	c.dataChar = dataChar
	c.writeChar = writeChar
	c.hasRW = rwErr == nil
	c.connected = true
	c.deviceName = result.Name
	c.address = result.Address
	c.mu.Unlock()

	log.Info().Str("name", result.Name).Msg("connected")

	return nil
}

func findCharacteristic(device bluetooth.Device, service, char bluetooth.UUID) (bluetooth.DeviceCharacteristic, error) {
	var none bluetooth.DeviceCharacteristic

	services, err := device.DiscoverServices([]bluetooth.UUID{service})
	if err != nil {
		return none, fmt.Errorf("failed to discover services: %w", err)
	}
	if len(services) == 0 {
		return none, fmt.Errorf("%w: %s", ErrServiceNotFound, service.String())
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{char})
	if err != nil {
		return none, fmt.Errorf("failed to discover characteristics: %w", err)
	}
	for _, ch := range chars {
		if ch.UUID() == char {
			return ch, nil
		}
	}

	return none, fmt.Errorf("%w: characteristic %s", ErrServiceNotFound, char.String())
}

// Retry calls fn until it succeeds, up to attempts times, stopping early if
// ctx is done. It returns the last error.
func Retry(ctx context.Context, attempts int, fn func(attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err == nil {
				return ctxErr
			}
			return fmt.Errorf("%w (last error: %v)", ctxErr, err)
		}
		if err = fn(i); err == nil {
			return nil
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}

// Disconnect disconnects from the current device.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	err := c.device.Disconnect()
	c.resetLocked()

	return err
}

func (c *Client) resetLocked() {
	c.connected = false
	c.hasRW = false
	c.deviceName = ""
	c.address = ""
	c.battery = -1
}

// IsConnected returns true if connected to a device.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// DeviceName returns the connected device name.
func (c *Client) DeviceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceName
}

// Address returns the connected device address.
func (c *Client) Address() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.address
}

// Battery returns the last known battery level (-1 if unknown).
func (c *Client) Battery() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.battery
}

// SendCommand writes a command to the RW write characteristic.
func (c *Client) SendCommand(cmd byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return ErrNotConnected
	}
	if !c.hasRW {
		return fmt.Errorf("%w: rw service", ErrServiceNotFound)
	}

	data := protocol.BuildCommand(cmd)
	_, err := c.writeChar.WriteWithoutResponse(data)
	return err
}

// RequestBattery asks the cube for its battery level. The reply arrives on
// the battery callback.
func (c *Client) RequestBattery() error {
	return c.SendCommand(protocol.CmdRequestBattery)
}

// handleState forwards state notifications.
func (c *Client) handleState(data []byte) {
	// The notification buffer may be reused by the stack.
	buf := make([]byte, len(data))
	copy(buf, data)

	c.mu.RLock()
	cb := c.onState
	c.mu.RUnlock()

	if cb != nil {
		cb(buf)
	}
}

// handleRW handles replies on the RW read characteristic.
func (c *Client) handleRW(data []byte) {
	level, err := protocol.DecodeBattery(data)
	if err != nil {
		c.logger.Debug().Err(err).Msg("ignoring rw notification")
		return
	}

	c.mu.Lock()
	changed := level != c.battery
	c.battery = level
	cb := c.onBattery
	c.mu.Unlock()

	if changed && cb != nil {
		cb(level)
	}
}

// handleConnect is called by the adapter on connection changes.
func (c *Client) handleConnect(device bluetooth.Device, connected bool) {
	if connected {
		return
	}

	c.mu.Lock()
	if !c.connected || !strings.EqualFold(device.Address.String(), c.address) {
		c.mu.Unlock()
		return
	}
	address := c.address
	c.resetLocked()
	cb := c.onDisconnect
	c.mu.Unlock()

	c.logger.Info().Str("address", address).Msg("disconnected")
	if cb != nil {
		cb()
	}
}
