package runner

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Display receives run status for whatever surface is attached to the host.
type Display interface {
	Status(msg string)
	Frame(n int, code int32)
	Clear()
}

type consoleDisplay struct{}

// NewConsoleDisplay returns a display that writes to the terminal.
func NewConsoleDisplay() Display {
	fmt.Println("Starting the console display")
	return consoleDisplay{}
}

func (consoleDisplay) Status(msg string) {
	fmt.Printf("Status: %q\n", msg)
}

func (consoleDisplay) Frame(n int, code int32) {
	log.Debugf("frame %d finished with code %d", n, code)
}

func (consoleDisplay) Clear() {
	fmt.Println("Display cleared")
}
