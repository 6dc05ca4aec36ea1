package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Device is a cube that has been connected at least once.
type Device struct {
	Address     string
	Name        string
	FirstSeenAt time.Time
	LastSeenAt  time.Time
	Battery     *int // Last reported level, nil if never reported
}

// DeviceRepository provides access to known devices.
type DeviceRepository struct {
	db *DB
}

// NewDeviceRepository creates a new device repository.
func NewDeviceRepository(db *DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Upsert records a device as seen now, inserting it on first sight.
func (r *DeviceRepository) Upsert(address, name string) error {
	now := formatTime(time.Now())
	_, err := r.db.Exec(`
		INSERT INTO devices (address, name, first_seen_at, last_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			name = CASE WHEN excluded.name != '' THEN excluded.name ELSE devices.name END,
			last_seen_at = excluded.last_seen_at
	`, address, name, now, now)

	if err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}

	return nil
}

// SetBattery stores the last reported battery level of a known device.
func (r *DeviceRepository) SetBattery(address string, level int) error {
	result, err := r.db.Exec(`
		UPDATE devices SET battery = ?, last_seen_at = ? WHERE address = ?
	`, level, formatTime(time.Now()), address)
	if err != nil {
		return fmt.Errorf("failed to set battery: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set battery: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to set battery: unknown device %s", address)
	}

	return nil
}

// Get retrieves a device by address. It returns nil if the device is unknown.
func (r *DeviceRepository) Get(address string) (*Device, error) {
	row := r.db.QueryRow(`
		SELECT address, name, first_seen_at, last_seen_at, battery
		FROM devices
		WHERE address = ?
	`, address)

	d, err := scanDevice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return d, nil
}

// List retrieves all known devices, most recently seen first.
func (r *DeviceRepository) List() ([]Device, error) {
	rows, err := r.db.Query(`
		SELECT address, name, first_seen_at, last_seen_at, battery
		FROM devices
		ORDER BY last_seen_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, *d)
	}

	return devices, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDevice(s scanner) (*Device, error) {
	var d Device
	var firstSeen, lastSeen string
	var battery sql.NullInt64

	if err := s.Scan(&d.Address, &d.Name, &firstSeen, &lastSeen, &battery); err != nil {
		return nil, err
	}

	d.FirstSeenAt = parseTime(firstSeen)
	d.LastSeenAt = parseTime(lastSeen)
	if battery.Valid {
		level := int(battery.Int64)
		d.Battery = &level
	}

	return &d, nil
}
