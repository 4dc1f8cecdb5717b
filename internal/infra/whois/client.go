// Package whois implements the legacy WHOIS protocol: a raw TCP
// client on port 43, the IANA-based authoritative-server locator, the
// heterogeneous free-text date heuristics, and the expiry resolver
// that ties them together with a single registrar-referral hop.
package whois

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// DefaultTimeout bounds one full WHOIS exchange: dial, write, read.
const DefaultTimeout = 8 * time.Second

// Querier issues one WHOIS query against a named server and returns
// the full text response.
type Querier interface {
	Query(ctx context.Context, server, query string) (string, error)
}

// Client is the wire-level WHOIS client.
type Client struct {
	timeout time.Duration
	dialer  net.Dialer
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{timeout: timeout}
}

// Query connects to server:43, sends the query line, and collects the
// whole response. The timeout is an absolute deadline on the entire
// exchange, so a stalled server cannot hold the connection open past
// it.
func (c *Client) Query(ctx context.Context, server, query string) (string, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addr := server
	if _, _, err := net.SplitHostPort(server); err != nil {
		addr = net.JoinHostPort(server, "43")
	}

	conn, err := c.dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("connect to %s failed: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return "", fmt.Errorf("set deadline on %s failed: %w", server, err)
	}

	if _, err := conn.Write([]byte(query + "\r\n")); err != nil {
		return "", fmt.Errorf("write to %s failed: %w", server, err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("read from %s failed: %w", server, err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty response from %s", server)
	}
	return string(raw), nil
}
