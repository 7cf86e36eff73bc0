package email

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRelay is a minimal SMTP server speaking just enough of the protocol
// for one plain text delivery.
type fakeRelay struct {
	listener net.Listener
	starttls bool
	received chan string
}

func newFakeRelay(t *testing.T, starttls bool) *fakeRelay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	r := &fakeRelay{listener: ln, starttls: starttls, received: make(chan string, 1)}
	go r.serve()
	return r
}

func (r *fakeRelay) port(t *testing.T) int {
	_, port, err := net.SplitHostPort(r.listener.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return p
}

func (r *fakeRelay) serve() {
	conn, err := r.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch verb {
		case "EHLO":
			if r.starttls {
				_ = tp.PrintfLine("250-fake")
				_ = tp.PrintfLine("250 STARTTLS")
			} else {
				_ = tp.PrintfLine("250 fake")
			}
		case "MAIL", "RCPT":
			_ = tp.PrintfLine("250 OK")
		case "DATA":
			_ = tp.PrintfLine("354 go ahead")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			r.received <- string(data)
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("502 not implemented")
		}
	}
}

func TestSMTPSenderDeliversPlainMessage(t *testing.T) {
	relay := newFakeRelay(t, false)
	s := NewSMTPSender(SMTPConfig{
		Host:      "127.0.0.1",
		Port:      relay.port(t),
		FromName:  "MiniLMS",
		FromEmail: "noreply@minilms.local",
		TLSMode:   TLSModeNone,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Send(ctx, []string{"ana@x.com"}, "Hello", "body text"))

	select {
	case msg := <-relay.received:
		assert.Contains(t, msg, "Subject: Hello")
		assert.Contains(t, msg, "body text")
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not receive the message")
	}
}

func TestSMTPSenderRequiresAdvertisedStartTLS(t *testing.T) {
	relay := newFakeRelay(t, false)
	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: relay.port(t), FromEmail: "noreply@minilms.local"}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.Send(ctx, []string{"ana@x.com"}, "Hello", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")
}

func TestSMTPSenderHonoursContextDeadline(t *testing.T) {
	// A server that accepts the connection and never sends its greeting.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				_, _ = bufio.NewReader(conn).ReadString('\n')
			}()
		}
	}()

	_, port, _ := net.SplitHostPort(ln.Addr().String())
	p, _ := strconv.Atoi(port)

	for _, mode := range []string{TLSModeNone, TLSModeStartTLS, TLSModeImplicit} {
		t.Run(mode, func(t *testing.T) {
			s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: p, FromEmail: "noreply@minilms.local", TLSMode: mode}, zerolog.Nop())

			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			start := time.Now()
			err := s.Send(ctx, []string{"ana@x.com"}, "Hello", "body")
			require.Error(t, err)
			assert.Less(t, time.Since(start), 3*time.Second)
		})
	}
}
