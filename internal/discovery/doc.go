// Package discovery finds VITA-49 radios by listening for their periodic
// UDP broadcast announcements.
//
// Radios broadcast an announcement datagram to port 4992 about once a
// second. Discovery is a single best-effort sweep: bind a broadcast
// capable socket, collect for a fixed window, keep the first datagram
// from each sender IP, then decode.
//
// # Discovery Process
//
//  1. Open binds UDP/IPv4 with SO_REUSEADDR, SO_REUSEPORT and SO_BROADCAST
//  2. Collect sets a hard read deadline at start+timeout
//  3. Each datagram is checked (zero length aborts the run) and deduplicated
//  4. The unique devices are returned in arrival order
//  5. Decode / DecodeAll turn each packet into a Result
//
// Nothing is ever sent on the socket.
//
// # Usage Example
//
//	l, err := discovery.Open(ctx, "", discovery.DefaultPort)
//	if err != nil {
//	    return err // *discovery.BindError
//	}
//	defer l.Close()
//
//	devices, err := l.Collect(ctx, discovery.DefaultTimeout, discovery.DefaultBufferSize)
//	if err != nil {
//	    return err // *discovery.ProtocolError on a zero-length datagram
//	}
//
//	for _, res := range discovery.DecodeAll(devices, oui.NewRegistry()) {
//	    if res.Err != nil {
//	        continue // per-packet, other devices are unaffected
//	    }
//	    fmt.Println(res.Device.IP, res.Header.PacketType)
//	}
//
// # Socket Ownership
//
// A Listener from Open owns its socket and closes it in Close. A Listener
// from NewListener wraps a caller-owned connection and never closes it.
//
// # Error Handling
//
//   - *BindError: socket setup failed, fatal
//   - *ProtocolError: zero-length datagram, fatal to the collection run
//   - per-packet decode errors live in Result.Err and never abort a run
//
// # Thread Safety
//
// A Listener supports one Collect at a time; concurrent calls get
// ErrCollectInProgress. Decode is pure and safe for concurrent use.
package discovery
