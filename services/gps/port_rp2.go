//go:build rp2040 || rp2350

package gps

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"airbuddy-go/errcode"
	"airbuddy-go/types"
)

// OpenPort configures the receiver's UART per cfg and returns it as a Port.
func OpenPort(cfg types.GPSConfig) (Port, error) {
	var hw *uartx.UART
	switch cfg.UARTID {
	case 0:
		hw = uartx.UART0
	case 1:
		hw = uartx.UART1
	default:
		return nil, errcode.Wrap(errcode.InvalidConfig, "gps_uart_id", nil)
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.Pin(cfg.TXPin),
		RX:       machine.Pin(cfg.RXPin),
	}); err != nil {
		return nil, errcode.Wrap(errcode.SensorUnavailable, "gps_uart_configure", err)
	}
	return hw, nil
}
