package cubotino

import (
	"context"
	"log/slog"
	"time"

	"github.com/AndreaFavero71/cubotino-pocket/internal/ble"
	"github.com/AndreaFavero71/cubotino-pocket/internal/protocol"
)

// RobotStatus is the robot's reported state and battery level.
type RobotStatus = protocol.Status

// Device is a discovered robot.
type Device struct {
	Name    string
	Address string
	RSSI    int16 // dBm

	result ble.ScanResult
}

// Robot is a connected Cubotino. It implements Executor.
//
//	r, err := cubotino.ConnectFirst(ctx, "", 10*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	plan, err := solver.Run(ctx, facelets, r)
type Robot struct {
	client *ble.Client
	device Device
}

// Scan lists robots whose name starts with namePrefix ("cubotino" when
// empty).
func Scan(ctx context.Context, namePrefix string, timeout time.Duration) ([]Device, error) {
	client, err := ble.NewClient(namePrefix, nil)
	if err != nil {
		return nil, err
	}
	results, err := client.Scan(ctx, timeout)
	if err != nil {
		return nil, err
	}
	devices := make([]Device, len(results))
	for i, r := range results {
		devices[i] = Device{Name: r.Name, Address: r.Address.String(), RSSI: r.RSSI, result: r}
	}
	return devices, nil
}

// Connect connects to a device returned by Scan.
func Connect(d Device, logger *slog.Logger) (*Robot, error) {
	client, err := ble.NewClient("", logger)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(d.result); err != nil {
		return nil, err
	}
	return &Robot{client: client, device: d}, nil
}

// ConnectFirst scans and connects to the first robot found.
func ConnectFirst(ctx context.Context, namePrefix string, timeout time.Duration) (*Robot, error) {
	devices, err := Scan(ctx, namePrefix, timeout)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ble.ErrDeviceNotFound
	}
	return Connect(devices[0], nil)
}

// Execute sends prog and waits until the robot reports completion.
func (r *Robot) Execute(ctx context.Context, prog Program) error {
	return r.client.Execute(ctx, prog)
}

// LastRun returns the robot's report of the last completed program.
func (r *Robot) LastRun() (robotMoves int, elapsed time.Duration) {
	d := r.client.LastRun()
	return d.RobotMoves, d.Elapsed
}

// Status asks the robot for its state and battery level.
func (r *Robot) Status(ctx context.Context) (RobotStatus, error) {
	return r.client.RequestStatus(ctx)
}

// Device returns the connected device.
func (r *Robot) Device() Device { return r.device }

// Close disconnects from the robot.
func (r *Robot) Close() error {
	return r.client.Disconnect()
}

var _ Executor = (*Robot)(nil)
