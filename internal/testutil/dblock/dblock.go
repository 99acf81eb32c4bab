package dblock

import (
	"net"
	"time"
)

const lockAddr = "127.0.0.1:46543"

// Acquire serializes database-backed test packages across processes by
// holding a local TCP listener. It blocks until the listener is free.
func Acquire() func() {
	for {
		ln, err := net.Listen("tcp", lockAddr)
		if err == nil {
			return func() { ln.Close() }
		}
		time.Sleep(50 * time.Millisecond)
	}
}
