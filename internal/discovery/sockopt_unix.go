//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package discovery

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// msgTrunc is the recvmsg flag set when a datagram exceeded the buffer
const msgTrunc = unix.MSG_TRUNC

// controlSocket enables address reuse and broadcast on the raw socket
// before bind.
func controlSocket(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		for _, opt := range []int{unix.SO_REUSEADDR, unix.SO_REUSEPORT, unix.SO_BROADCAST} {
			if sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, opt, 1); sockErr != nil {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return sockErr
}
