package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"xdccget/internal/config"
	"xdccget/internal/protocol"
	"xdccget/pkg/types"
)

// Controller owns the read loop for one transfer session. It is the only
// component aware of the transport: it sends the request, feeds received
// bytes to the frame decoder, classifies every frame, and drives the state
// machine until a terminal state is reached.
type Controller struct {
	cfg        *config.Config
	conn       net.Conn
	decoder    *protocol.Decoder
	machine    *Machine
	progressCh chan types.ProgressUpdate
}

// NewController creates a session controller over an established connection.
// The caller retains ownership of the connection and must close it.
func NewController(cfg *config.Config, conn net.Conn) *Controller {
	return &Controller{
		cfg:        cfg,
		conn:       conn,
		decoder:    protocol.NewDecoderWithLimit(cfg.Transfer.MaxFrameBytes),
		machine:    NewMachine(),
		progressCh: make(chan types.ProgressUpdate, 16),
	}
}

// Progress returns the channel of progress updates for display. The channel
// is closed when Run returns.
func (c *Controller) Progress() <-chan types.ProgressUpdate {
	return c.progressCh
}

// Run sends the request and consumes status messages until the session
// reaches a terminal state, which is returned as a Result. Transport errors
// become a failure outcome rather than propagating; cancellation via ctx
// ends the session as a failure carrying the last known percent.
func (c *Controller) Run(ctx context.Context, req protocol.Request) Result {
	defer close(c.progressCh)

	estimator := NewRateEstimator(time.Now())

	// Force the pending read to return promptly when ctx is cancelled.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.SetReadDeadline(time.Now())
		case <-watchDone:
		}
	}()

	payload, err := protocol.EncodeRequest(req)
	if err != nil {
		c.machine.TransportError(err)
		return c.result()
	}
	if _, err := c.conn.Write(payload); err != nil {
		c.machine.TransportError(fmt.Errorf("failed to send request: %w", err))
		return c.result()
	}
	c.machine.RequestSent()

	buf := make([]byte, 4096)
	for !c.machine.State().Terminal() {
		if ctx.Err() != nil {
			c.machine.Cancel()
			break
		}

		if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.Transfer.ReadTimeout)); err != nil {
			c.machine.TransportError(fmt.Errorf("failed to set read deadline: %w", err))
			break
		}

		n, err := c.conn.Read(buf)
		if n > 0 {
			c.dispatch(buf[:n], estimator)
		}
		if err != nil {
			switch {
			case ctx.Err() != nil:
				c.machine.Cancel()
			case errors.Is(err, io.EOF):
				c.machine.CleanClose()
			case isTimeout(err):
				c.machine.Timeout()
			default:
				c.machine.TransportError(err)
			}
		}
	}

	return c.result()
}

// dispatch decodes and classifies one chunk of received bytes.
func (c *Controller) dispatch(data []byte, estimator *RateEstimator) {
	for _, frame := range c.decoder.Feed(data) {
		msg, err := protocol.Classify(frame)
		if err != nil {
			log.Printf("Skipping malformed message: %v", err)
			continue
		}

		c.machine.Apply(msg)

		switch msg.Kind {
		case protocol.KindProgress:
			c.publish(types.ProgressUpdate{
				Percent:       msg.Percent,
				Filename:      msg.Filename,
				BytesReceived: msg.BytesReceived,
				BytesTotal:    msg.BytesTotal,
				Rate:          estimator.Sample(msg.BytesReceived, time.Now()),
			})
		case protocol.KindUnrecognized:
			log.Printf("Ignoring message with unrecognized status: %v", msg.RawFields["status"])
		}

		if c.machine.State().Terminal() {
			return
		}
	}
}

// publish sends an update without ever blocking the read loop; stale
// updates are dropped when the display cannot keep up.
func (c *Controller) publish(update types.ProgressUpdate) {
	select {
	case c.progressCh <- update:
	default:
	}
}

func (c *Controller) result() Result {
	return Result{
		State:       c.machine.state,
		LastPercent: c.machine.lastPercent,
		Filename:    c.machine.filename,
		SizeBytes:   c.machine.sizeBytes,
		SavedPath:   c.machine.savedPath,
		Reason:      c.machine.reason,
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
