package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/JaimeStill/autou/pkg/envvar"
)

const (
	EnvServerHost            = "AUTOU_SERVER_HOST"
	EnvServerPort            = "AUTOU_SERVER_PORT"
	EnvServerReadTimeout     = "AUTOU_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "AUTOU_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout = "AUTOU_SERVER_SHUTDOWN_TIMEOUT"

	// EnvPort is the platform-assigned port (Heroku, Render, Cloud Run).
	// AUTOU_SERVER_PORT wins when both are set.
	EnvPort = "PORT"
)

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration  { return duration(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration { return duration(c.WriteTimeout) }

// ShutdownTimeoutDuration bounds http.Server.Shutdown.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *ServerConfig) Merge(o *ServerConfig) {
	overlay(&c.Host, o.Host)
	overlay(&c.Port, o.Port)
	overlay(&c.ReadTimeout, o.ReadTimeout)
	overlay(&c.WriteTimeout, o.WriteTimeout)
	overlay(&c.ShutdownTimeout, o.ShutdownTimeout)
}

func (c *ServerConfig) loadDefaults() {
	fallback(&c.Host, "0.0.0.0")
	fallback(&c.Port, 8080)
	fallback(&c.ReadTimeout, "1m")
	fallback(&c.WriteTimeout, "2m")
	fallback(&c.ShutdownTimeout, "30s")
}

func (c *ServerConfig) loadEnv() {
	envvar.String(&c.Host, EnvServerHost)
	envvar.Int(&c.Port, EnvPort)
	envvar.Int(&c.Port, EnvServerPort)
	envvar.String(&c.ReadTimeout, EnvServerReadTimeout)
	envvar.String(&c.WriteTimeout, EnvServerWriteTimeout)
	envvar.String(&c.ShutdownTimeout, EnvServerShutdownTimeout)
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return durations(
		[2]string{"read_timeout", c.ReadTimeout},
		[2]string{"write_timeout", c.WriteTimeout},
		[2]string{"shutdown_timeout", c.ShutdownTimeout},
	)
}
