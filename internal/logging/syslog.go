// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

// SyslogConfig configures forwarding of log output to a remote syslog server.
type SyslogConfig struct {
	Enabled  bool   `hcl:"enabled,optional" yaml:"enabled"`
	Host     string `hcl:"host,optional" yaml:"host"`
	Port     int    `hcl:"port,optional" yaml:"port"`
	Protocol string `hcl:"protocol,optional" yaml:"protocol"` // "udp" or "tcp"
	Tag      string `hcl:"tag,optional" yaml:"tag"`
	Facility int    `hcl:"facility,optional" yaml:"facility"`
}

// DefaultSyslogConfig returns the disabled default configuration.
func DefaultSyslogConfig() SyslogConfig {
	return SyslogConfig{
		Enabled:  false,
		Port:     514,
		Protocol: "udp",
		Tag:      "sinkhole",
		Facility: 1, // user-level
	}
}

// SyslogWriter formats RFC 3164 messages and writes them to a remote server.
type SyslogWriter struct {
	conn     net.Conn
	tag      string
	facility int
	hostname string
}

// NewSyslogWriter connects to the configured syslog server.
func NewSyslogWriter(cfg SyslogConfig) (*SyslogWriter, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("syslog host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 514
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "udp"
	}
	if cfg.Tag == "" {
		cfg.Tag = "sinkhole"
	}

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	conn, err := net.DialTimeout(cfg.Protocol, addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to syslog server %s: %w", addr, err)
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "localhost"
	}

	return &SyslogWriter{
		conn:     conn,
		tag:      cfg.Tag,
		facility: cfg.Facility,
		hostname: hostname,
	}, nil
}

// Write implements io.Writer. Each write is sent as one syslog message.
func (w *SyslogWriter) Write(p []byte) (int, error) {
	// Severity 6 (informational); facility from config.
	pri := w.facility*8 + 6
	msg := fmt.Sprintf("<%d>%s %s %s: %s",
		pri,
		time.Now().Format(time.Stamp),
		w.hostname,
		w.tag,
		strings.TrimRight(string(p), "\n"))
	if _, err := w.conn.Write([]byte(msg)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the connection to the syslog server.
func (w *SyslogWriter) Close() error {
	return w.conn.Close()
}
