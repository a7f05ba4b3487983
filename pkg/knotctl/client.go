package knotctl

import (
	"fmt"
	"net"
	"time"
)

// Command is a control-protocol command name.
type Command string

const (
	CmdStats      Command = "stats"
	CmdZoneStats  Command = "zone-stats"
	CmdZoneStatus Command = "zone-status"
	CmdZoneRead   Command = "zone-read"
)

// Request is one command sent over a control session.
type Request struct {
	Command Command

	// Flags carries command flags, e.g. "F" to force.
	//
	// optional: if empty, no flags are sent.
	Flags string

	// Zone restricts a zone command to a single zone.
	//
	// optional: if empty, the command applies to all zones.
	Zone string

	// Type restricts a record command to a single record type,
	// e.g. "SOA" for zone-read.
	Type string
}

// Session is a single established control-channel exchange. A session is
// not safe for concurrent use; each scrape must dial its own.
type Session interface {
	// Send issues one command.
	Send(req Request) error

	// ReceiveTree reads reply units until the exchange ends and
	// assembles them into a Tree.
	ReceiveTree() (Tree, error)

	// Close sends the final END unit and releases the connection.
	Close() error
}

// Dialer opens control sessions.
type Dialer interface {
	Dial() (Session, error)
}

// ServerError is an error item reported by the server within a reply.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s", e.Message)
}

// SocketDialer opens sessions over the knot control unix socket.
type SocketDialer struct {
	// Path is the filesystem path of the control socket.
	Path string

	// Timeout bounds the dial and every subsequent send/receive
	// operation on the session.
	Timeout time.Duration
}

var _ Dialer = (*SocketDialer)(nil)

// Dial connects to the control socket.
func (d *SocketDialer) Dial() (Session, error) {
	conn, err := net.DialTimeout("unix", d.Path, d.Timeout)
	if err != nil {
		return nil, fmt.Errorf("dial '%s': %w", d.Path, err)
	}

	return &socketSession{
		conn:    conn,
		timeout: d.Timeout,
	}, nil
}

type socketSession struct {
	conn    net.Conn
	timeout time.Duration
}

var _ Session = (*socketSession)(nil)

func (s *socketSession) Send(req Request) error {
	u := unit{
		typ: unitData,
		items: map[dataIdx]string{
			idxCommand: string(req.Command),
		},
	}

	if req.Flags != "" {
		u.items[idxFlags] = req.Flags
	}
	if req.Zone != "" {
		u.items[idxZone] = req.Zone
	}
	if req.Type != "" {
		u.items[idxType] = req.Type
	}

	if err := s.conn.SetWriteDeadline(s.deadline()); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}

	if err := writeUnit(s.conn, u); err != nil {
		return fmt.Errorf("send %s: %w", req.Command, err)
	}

	return nil
}

func (s *socketSession) ReceiveTree() (Tree, error) {
	tree := Tree{}

	for {
		if err := s.conn.SetReadDeadline(s.deadline()); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}

		u, err := readUnit(s.conn)
		if err != nil {
			return nil, fmt.Errorf("receive: %w", err)
		}

		switch u.typ {
		case unitEnd, unitBlock:
			return tree, nil
		case unitData, unitExtra:
			if msg, ok := u.items[idxError]; ok {
				return nil, &ServerError{Message: msg}
			}

			tree.insert(u)
		default:
			return nil, fmt.Errorf("unexpected unit type %d", u.typ)
		}
	}
}

func (s *socketSession) Close() error {
	// best effort: let the server tear down its side cleanly.
	if err := s.conn.SetWriteDeadline(s.deadline()); err == nil {
		_ = writeUnit(s.conn, unit{typ: unitEnd})
	}

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (s *socketSession) deadline() time.Time {
	if s.timeout == 0 {
		return time.Time{}
	}

	return time.Now().Add(s.timeout)
}
