// internal/gpsd/client.go
package gpsd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/tamzrod/bikedash/internal/link"
)

const (
	watchCmd = `?WATCH={"enable":true};`
	pollCmd  = `?POLL;`

	// maxSkip bounds the reports read while waiting for the POLL reply.
	maxSkip = 32
)

// Config describes the daemon endpoint.
type Config struct {
	Address string        // host:port, usually 127.0.0.1:2947
	Timeout time.Duration // dial + per-request deadline
}

// Client is a gpsd JSON client answering one POLL per CurrentFix call.
// A failed request drops the connection; the next call redials.
type Client struct {
	mu   sync.Mutex
	cfg  Config
	log  hclog.Logger
	conn net.Conn
	r    *bufio.Reader
}

func New(cfg Config, log hclog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Client{cfg: cfg, log: log}
}

type report struct {
	Class string      `json:"class"`
	TPV   []tpvReport `json:"tpv"`
	Sky   []skyReport `json:"sky"`
}

type tpvReport struct {
	Mode  int     `json:"mode"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Speed float64 `json:"speed"`
	Epx   float64 `json:"epx"`
	Epy   float64 `json:"epy"`
	Epv   float64 `json:"epv"`
	Eps   float64 `json:"eps"`
	Ept   float64 `json:"ept"`
}

type skyReport struct {
	USat       *int `json:"uSat"`
	Satellites []struct {
		Used bool `json:"used"`
	} `json:"satellites"`
}

// CurrentFix implements link.FixSource.
func (c *Client) CurrentFix() (link.Fix, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.dial(); err != nil {
			return link.Fix{}, err
		}
	}

	fix, err := c.poll()
	if err != nil {
		c.closeLocked()
		return link.Fix{}, err
	}
	return fix, nil
}

// Close drops the daemon connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) dial() error {
	conn, err := net.DialTimeout("tcp", c.cfg.Address, c.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("gpsd: dial %s: %w", c.cfg.Address, err)
	}
	c.conn = conn
	c.r = bufio.NewReader(conn)

	if err := c.send(watchCmd); err != nil {
		c.closeLocked()
		return err
	}
	c.log.Debug("connected to gpsd", "address", c.cfg.Address)
	return nil
}

func (c *Client) send(cmd string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.Timeout)); err != nil {
		return fmt.Errorf("gpsd: set deadline: %w", err)
	}
	if _, err := c.conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("gpsd: write: %w", err)
	}
	return nil
}

func (c *Client) poll() (link.Fix, error) {
	if err := c.send(pollCmd); err != nil {
		return link.Fix{}, err
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout)); err != nil {
		return link.Fix{}, fmt.Errorf("gpsd: set deadline: %w", err)
	}

	// The daemon interleaves VERSION, DEVICES, WATCH and streamed TPV/SKY
	// reports with the POLL reply.
	for i := 0; i < maxSkip; i++ {
		line, err := c.r.ReadBytes('\n')
		if err != nil {
			return link.Fix{}, fmt.Errorf("gpsd: read: %w", err)
		}
		var rep report
		if err := json.Unmarshal(line, &rep); err != nil {
			c.log.Debug("skipping malformed report", "error", err)
			continue
		}
		if rep.Class != "POLL" {
			continue
		}
		return toFix(rep), nil
	}
	return link.Fix{}, errors.New("gpsd: no POLL reply")
}

func toFix(rep report) link.Fix {
	var fix link.Fix
	if len(rep.TPV) > 0 {
		t := rep.TPV[0]
		fix.Mode = t.Mode
		fix.Latitude = t.Lat
		fix.Longitude = t.Lon
		fix.Speed = t.Speed
		fix.Errors = link.ErrorEstimates{X: t.Epx, Y: t.Epy, V: t.Epv, Speed: t.Eps, Time: t.Ept}
	}
	if len(rep.Sky) > 0 {
		s := rep.Sky[0]
		if s.USat != nil {
			fix.SatellitesValid = *s.USat
		} else {
			for _, sat := range s.Satellites {
				if sat.Used {
					fix.SatellitesValid++
				}
			}
		}
	}
	return fix
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.r = nil
	return err
}
