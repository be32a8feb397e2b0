// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"
	"go.bug.st/serial"
	"golang.org/x/term"
)

const (
	dialTimeout      = 15 * time.Second
	handshakeTimeout = 10 * time.Second
)

// ErrConnectionClosed is returned once the peer has closed a WebSocket source
var ErrConnectionClosed = errors.New("websocket connection closed")

// lineConn is a byte stream of newline-terminated messages that can be
// written back to (for --echo)
type lineConn interface {
	io.ReadWriteCloser
}

// sourceOptions selects where monitor reads messages from
type sourceOptions struct {
	Port string
	Baud int

	URL      string
	Username string
	Insecure bool
}

func addSourceFlags(fs *pflag.FlagSet, o *sourceOptions) {
	fs.StringVarP(&o.Port, "port", "p", "", "Serial port device")
	fs.IntVarP(&o.Baud, "baud", "b", 115200, "Baud rate (serial only)")
	fs.StringVarP(&o.URL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	fs.StringVar(&o.Username, "username", "", "Username for HTTP Basic auth")
	fs.BoolVar(&o.Insecure, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// open connects to the configured source and describes it for the banner.
// password is only called for WebSocket sources with a username.
func (o sourceOptions) open(password func() (string, error)) (lineConn, string, error) {
	switch {
	case o.URL != "":
		var pass string
		if o.Username != "" {
			var err error
			if pass, err = password(); err != nil {
				return nil, "", err
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		conn, err := dialWebSocket(ctx, o.URL, o.Username, pass, o.Insecure)
		if err != nil {
			return nil, "", err
		}
		return conn, "WebSocket: " + o.URL, nil

	case o.Port != "":
		conn, err := openSerial(o.Port, o.Baud)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("Serial: %s @ %d baud", o.Port, o.Baud), nil
	}
	return nil, "", errors.New("either --port or --url must be specified")
}

// openSerial opens port as 8N1; serial.Port already satisfies lineConn
func openSerial(port string, baud int) (lineConn, error) {
	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}
	return p, nil
}

// wsLineConn presents WebSocket messages as lines: each text or binary
// message becomes one line, '\n' added when missing.
type wsLineConn struct {
	ws   *websocket.Conn
	rest []byte
	err  error
}

func (c *wsLineConn) Read(p []byte) (int, error) {
	for len(c.rest) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			c.err = err
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.err = ErrConnectionClosed
			}
			continue
		}
		if (kind != websocket.TextMessage && kind != websocket.BinaryMessage) || len(data) == 0 {
			continue
		}
		if data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		c.rest = data
	}
	n := copy(p, c.rest)
	c.rest = c.rest[n:]
	return n, nil
}

// Write sends p as one text message
func (c *wsLineConn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsLineConn) Close() error {
	return c.ws.Close()
}

// dialWebSocket connects to rawURL. Credentials embedded in the URL are used
// when username is empty.
func dialWebSocket(ctx context.Context, rawURL, username, password string, insecure bool) (lineConn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}
	if u.User != nil {
		if username == "" {
			username = u.User.Username()
			password, _ = u.User.Password()
		}
		u.User = nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: insecure}
	}

	req := http.Request{Header: http.Header{}}
	if username != "" {
		req.SetBasicAuth(username, password)
	}

	ws, resp, err := dialer.DialContext(ctx, u.String(), req.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}
	return &wsLineConn{ws: ws}, nil
}

// readPassword returns CANCRC_PASSWORD or asks on the terminal without echo.
// A non-terminal stdin is read as one plain line.
func readPassword() (string, error) {
	if cfg != nil && cfg.Password != "" {
		return cfg.Password, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	defer fmt.Fprintln(os.Stderr)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
