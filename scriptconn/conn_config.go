package scriptconn

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/termscript/go-s3270/logger"
)

// Default endpoint of the scripting port.
const (
	DefaultHost = "localhost"
	DefaultPort = 3270
)

// Default connection parameters.
const (
	// DefaultConnectAttempts is the number of dial attempts made by Connect.
	// The host process may still be starting its listener when Connect is called.
	DefaultConnectAttempts = 10
	// DefaultConnectRetryInterval is the pause between two dial attempts.
	DefaultConnectRetryInterval = 50 * time.Millisecond
	// DefaultDialTimeout bounds a single dial attempt.
	DefaultDialTimeout = 1 * time.Second
	// DefaultMaxLineLength is the longest reply line accepted, terminator excluded.
	DefaultMaxLineLength = 64 * 1024
)

// Range limits of the connection parameters.
const (
	MinConnectAttempts = 1
	MaxConnectAttempts = 1000

	MinConnectRetryInterval = 1 * time.Millisecond
	MaxConnectRetryInterval = 10 * time.Second

	MinDialTimeout = 10 * time.Millisecond
	MaxDialTimeout = 30 * time.Second

	MinMaxLineLength = 256
	MaxMaxLineLength = 16 * 1024 * 1024
)

// ConnectionConfig holds the configuration of a scripting connection.
type ConnectionConfig struct {
	host string
	port int

	// connectAttempts and connectRetryInterval form the connect retry budget.
	connectAttempts      int
	connectRetryInterval time.Duration
	dialTimeout          time.Duration

	// readTimeout bounds one whole reply; zero blocks until the outcome line arrives.
	readTimeout time.Duration
	// writeTimeout bounds one SendLine; zero disables the deadline.
	writeTimeout time.Duration

	maxLineLength int

	logger logger.Logger
}

// NewConnectionConfig creates a new scripting connection configuration.
//
// host is the address of the emulator's scripting port, usually DefaultHost.
// port is the TCP port, usually DefaultPort.
// opts are functional options applied in order; see With* functions.
func NewConnectionConfig(host string, port int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		connectAttempts:      DefaultConnectAttempts,
		connectRetryInterval: DefaultConnectRetryInterval,
		dialTimeout:          DefaultDialTimeout,
		maxLineLength:        DefaultMaxLineLength,
		logger:               logger.GetLogger(),
	}

	if err := cfg.setHost(host); err != nil {
		return nil, err
	}
	if err := cfg.setPort(port); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *ConnectionConfig) setHost(host string) error {
	if ip := net.ParseIP(host); ip != nil {
		cfg.host = host
		return nil
	}

	host = strings.TrimPrefix(host, ".")
	host = strings.TrimSuffix(host, ".")
	if host != "" {
		if _, err := net.LookupHost(host); err == nil {
			cfg.host = host
			return nil
		}
	}

	return fmt.Errorf("s3270: invalid host %q", host)
}

func (cfg *ConnectionConfig) setPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("s3270: port %d out of range [1, 65535]", port)
	}
	cfg.port = port

	return nil
}

// --- Getters ---

// Host returns the configured host address.
func (cfg *ConnectionConfig) Host() string { return cfg.host }

// Port returns the configured TCP port.
func (cfg *ConnectionConfig) Port() int { return cfg.port }

// Addr returns the dial address in host:port form.
func (cfg *ConnectionConfig) Addr() string {
	return net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

func (cfg *ConnectionConfig) ConnectAttempts() int { return cfg.connectAttempts }

func (cfg *ConnectionConfig) ConnectRetryInterval() time.Duration { return cfg.connectRetryInterval }

func (cfg *ConnectionConfig) DialTimeout() time.Duration { return cfg.dialTimeout }

func (cfg *ConnectionConfig) ReadTimeout() time.Duration { return cfg.readTimeout }

func (cfg *ConnectionConfig) WriteTimeout() time.Duration { return cfg.writeTimeout }

func (cfg *ConnectionConfig) MaxLineLength() int { return cfg.maxLineLength }

func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// --- ConnOption ---

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error { return f(cfg) }

// WithConnectAttempts sets how many times Connect dials before giving up.
// Must be in [1, 1000]. The default is 10.
func WithConnectAttempts(n int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if n < MinConnectAttempts || n > MaxConnectAttempts {
			return fmt.Errorf("s3270: connect attempts %d out of range [%d, %d]", n, MinConnectAttempts, MaxConnectAttempts)
		}
		cfg.connectAttempts = n

		return nil
	})
}

// WithConnectRetryInterval sets the pause between two dial attempts.
// Must be in [1ms, 10s]. The default is 50ms.
func WithConnectRetryInterval(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinConnectRetryInterval || d > MaxConnectRetryInterval {
			return fmt.Errorf("s3270: connect retry interval %v out of range [%v, %v]",
				d, MinConnectRetryInterval, MaxConnectRetryInterval)
		}
		cfg.connectRetryInterval = d

		return nil
	})
}

// WithDialTimeout sets the timeout of a single dial attempt.
// Must be in [10ms, 30s]. The default is 1s.
func WithDialTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinDialTimeout || d > MaxDialTimeout {
			return fmt.Errorf("s3270: dial timeout %v out of range [%v, %v]", d, MinDialTimeout, MaxDialTimeout)
		}
		cfg.dialTimeout = d

		return nil
	})
}

// WithReadTimeout sets the deadline for receiving one whole reply.
//
// Zero, the default, waits for the outcome line forever. When the deadline
// expires the read fails with s3270.ErrReplyTimeout and the rest of the reply
// is left unread on the socket; the caller decides whether to disconnect.
func WithReadTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < 0 {
			return fmt.Errorf("s3270: read timeout %v must not be negative", d)
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithWriteTimeout sets the deadline for writing one command line.
// Zero, the default, disables the deadline.
func WithWriteTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < 0 {
			return fmt.Errorf("s3270: write timeout %v must not be negative", d)
		}
		cfg.writeTimeout = d

		return nil
	})
}

// WithMaxLineLength sets the longest reply line accepted, in bytes.
// Must be in [256, 16MiB]. The default is 64KiB.
func WithMaxLineLength(n int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if n < MinMaxLineLength || n > MaxMaxLineLength {
			return fmt.Errorf("s3270: max line length %d out of range [%d, %d]", n, MinMaxLineLength, MaxMaxLineLength)
		}
		cfg.maxLineLength = n

		return nil
	})
}

// WithLogger sets the logger of the connection. The default is the global logger.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("s3270: logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
