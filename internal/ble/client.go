// Package ble drives a Cubotino robot controller over Bluetooth Low Energy.
package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AndreaFavero71/cubotino-pocket/internal/protocol"
	"tinygo.org/x/bluetooth"
)

// Errors
var (
	ErrNotConnected     = errors.New("ble: not connected to robot")
	ErrAlreadyConnected = errors.New("ble: already connected to a robot")
	ErrDeviceNotFound   = errors.New("ble: robot not found")
	ErrServiceNotFound  = errors.New("ble: uart service not found")
)

// DefaultNamePrefix matches the advertised name of the robot controller.
const DefaultNamePrefix = "cubotino"

var (
	serviceUUID = mustParseUUID(protocol.ServiceUUID)
	txCharUUID  = mustParseUUID(protocol.TxCharUUID)
	rxCharUUID  = mustParseUUID(protocol.RxCharUUID)
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// ScanResult is a discovered robot.
type ScanResult struct {
	Name    string
	Address bluetooth.Address
	RSSI    int16
}

// Client manages the BLE connection to one robot.
type Client struct {
	*session

	adapter    *bluetooth.Adapter
	namePrefix string

	mu        sync.RWMutex
	device    bluetooth.Device
	rxChar    bluetooth.DeviceCharacteristic
	connected bool
	name      string
}

// NewClient enables the default adapter. Robots are matched by a
// case-insensitive name prefix; an empty prefix uses DefaultNamePrefix.
func NewClient(namePrefix string, logger *slog.Logger) (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("ble: enable adapter: %w", err)
	}
	if namePrefix == "" {
		namePrefix = DefaultNamePrefix
	}
	c := &Client{adapter: adapter, namePrefix: strings.ToLower(namePrefix)}
	c.session = newSession(c, logger)
	return c, nil
}

func (c *Client) write(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected {
		return ErrNotConnected
	}
	_, err := c.rxChar.WriteWithoutResponse(data)
	return err
}

// Scan lists robots seen until timeout or ctx ends.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]ScanResult, error) {
	var (
		mu      sync.Mutex
		results []ScanResult
		seen    = make(map[string]bool)
		done    = make(chan error, 1)
	)

	go func() {
		done <- c.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
			name := r.LocalName()
			if !strings.HasPrefix(strings.ToLower(name), c.namePrefix) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			addr := r.Address.String()
			if seen[addr] {
				return
			}
			seen[addr] = true
			results = append(results, ScanResult{Name: name, Address: r.Address, RSSI: r.RSSI})
		})
	}()

	select {
	case <-time.After(timeout):
	case <-ctx.Done():
	}
	c.adapter.StopScan()
	if err := <-done; err != nil {
		return nil, fmt.Errorf("ble: scan: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

// ConnectFirst scans and connects to the first robot found.
func (c *Client) ConnectFirst(ctx context.Context, timeout time.Duration) error {
	results, err := c.Scan(ctx, timeout)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return ErrDeviceNotFound
	}
	return c.Connect(results[0])
}

// Connect opens the UART service on a scanned robot.
func (c *Client) Connect(result ScanResult) error {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	if connected {
		return ErrAlreadyConnected
	}

	device, err := c.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("ble: connect: %w", err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("ble: discover services: %w", err)
	}
	if len(services) == 0 {
		device.Disconnect()
		return ErrServiceNotFound
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("ble: discover characteristics: %w", err)
	}

	var txChar, rxChar bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			txChar = ch
		case rxCharUUID:
			rxChar = ch
		}
	}

	if err := txChar.EnableNotifications(c.handleNotification); err != nil {
		device.Disconnect()
		return fmt.Errorf("ble: enable notifications: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.rxChar = rxChar
	c.connected = true
	c.name = result.Name
	c.mu.Unlock()

	c.logger.Info("connected to robot", "name", result.Name, "address", result.Address.String())
	return nil
}

// Disconnect closes the connection. It is a no-op when not connected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	err := c.device.Disconnect()
	c.connected = false
	c.name = ""
	return err
}

// IsConnected reports whether a robot is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Name returns the connected robot's advertised name.
func (c *Client) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}
