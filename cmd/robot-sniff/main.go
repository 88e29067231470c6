// Robot link sniffer - connects to a Cubotino and prints every frame it sends.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"tinygo.org/x/bluetooth"

	"github.com/AndreaFavero71/cubotino-pocket/internal/protocol"
)

func main() {
	prefix := flag.StringP("name", "n", "cubotino", "Advertised name prefix")
	status := flag.Bool("status", true, "Send a status request after connecting")
	flag.Parse()

	fmt.Println("Robot Link Sniffer")
	fmt.Println("==================")
	fmt.Println()

	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		fmt.Printf("Failed to enable adapter: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scanning for %q...\n", *prefix)

	var targetAddr bluetooth.Address
	var targetName string
	found := make(chan struct{})
	var foundOnce sync.Once

	go func() {
		adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			name := result.LocalName()
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(*prefix)) {
				foundOnce.Do(func() {
					targetAddr = result.Address
					targetName = name
					close(found)
				})
			}
		})
	}()

	select {
	case <-found:
		adapter.StopScan()
	case <-time.After(10 * time.Second):
		adapter.StopScan()
		fmt.Println("Robot not found")
		os.Exit(1)
	}

	// Give time for StopScan to take effect
	time.Sleep(100 * time.Millisecond)

	fmt.Printf("Found: %s (%s)\n", targetName, targetAddr.String())
	device, err := adapter.Connect(targetAddr, bluetooth.ConnectionParams{})
	if err != nil {
		fmt.Printf("Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer device.Disconnect()

	svcUUID, _ := bluetooth.ParseUUID(protocol.ServiceUUID)
	txUUID, _ := bluetooth.ParseUUID(protocol.TxCharUUID)
	rxUUID, _ := bluetooth.ParseUUID(protocol.RxCharUUID)

	services, err := device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil || len(services) == 0 {
		fmt.Printf("UART service not found: %v\n", err)
		return
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txUUID, rxUUID})
	if err != nil {
		fmt.Printf("Failed to discover characteristics: %v\n", err)
		return
	}

	var txChar, rxChar bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txUUID:
			txChar = ch
		case rxUUID:
			rxChar = ch
		}
	}

	var asm protocol.Assembler
	var mu sync.Mutex
	err = txChar.EnableNotifications(func(data []byte) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Printf("[RAW] %s\n", hex.EncodeToString(data))
		msgs, errs := asm.Feed(data)
		for _, err := range errs {
			fmt.Printf("      bad frame: %v\n", err)
		}
		for _, msg := range msgs {
			fmt.Printf("      %s %s\n", protocol.MessageTypeName(msg.Type), describe(msg))
		}
	})
	if err != nil {
		fmt.Printf("Failed to enable notifications: %v\n", err)
		return
	}
	fmt.Println("Notifications enabled. Press Ctrl+C to exit")
	fmt.Println()

	if *status {
		if _, err := rxChar.WriteWithoutResponse(protocol.BuildCommand(protocol.MsgTypeStatusReq)); err != nil {
			fmt.Printf("Status request failed: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	fmt.Println("\nDisconnecting...")
}

func describe(msg *protocol.Message) string {
	switch msg.Type {
	case protocol.MsgTypeAck:
		n, err := protocol.DecodeAck(msg.Payload)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%d primitives", n)
	case protocol.MsgTypeDone:
		d, err := protocol.DecodeDone(msg.Payload)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%d robot moves in %s", d.RobotMoves, d.Elapsed)
	case protocol.MsgTypeError:
		return protocol.DecodeError(msg.Payload)
	case protocol.MsgTypeStatus:
		st, err := protocol.DecodeStatus(msg.Payload)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%s, battery %d%%", st.State, st.Battery)
	}
	return hex.EncodeToString(msg.Payload)
}
