package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// toolConfig holds the global options shared by every subcommand,
// generalized from the teacher's appConfig (cmd/can-server/config.go).
type toolConfig struct {
	force      bool
	debug      bool
	port       string
	baudrate   int
	retries    int
	jsonOut    bool
	protocol   int
	readTO     time.Duration
	command    string
	args       []string
}

func parseFlags(argv []string) (*toolConfig, bool, error) {
	fs := flag.NewFlagSet("dynamixel-tool", flag.ContinueOnError)
	force := fs.Bool("force", false, "Proceed even if RS-485 configuration fails or is unsupported")
	debug := fs.Bool("debug", false, "Enable debug logging")
	port := fs.String("port", "auto", "Serial port device, or \"auto\" to autodetect")
	baudrate := fs.Int("baudrate", 57600, "Serial baud rate")
	retries := fs.Int("retries", 0, "Additional retry attempts per operation")
	jsonOut := fs.Bool("json", false, "Emit results as JSON")
	protocol := fs.Int("protocol", 1, "Protocol version: 1 or 2")
	readTO := fs.Duration("read-timeout", 10*time.Millisecond, "Per-read transport timeout")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(argv); err != nil {
		return nil, false, err
	}

	cfg := &toolConfig{
		force:    *force,
		debug:    *debug,
		port:     *port,
		baudrate: *baudrate,
		retries:  *retries,
		jsonOut:  *jsonOut,
		protocol: *protocol,
		readTO:   *readTO,
	}

	setFlags := map[string]struct{}{}
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = struct{}{} })
	if err := applyEnvOverrides(cfg, setFlags); err != nil {
		return nil, *showVersion, err
	}

	rest := fs.Args()
	if !*showVersion {
		if len(rest) < 1 {
			return nil, *showVersion, errors.New("missing subcommand")
		}
		cfg.command = rest[0]
		cfg.args = rest[1:]
	}

	if err := cfg.validate(); err != nil {
		return nil, *showVersion, err
	}
	return cfg, *showVersion, nil
}

// validate performs semantic validation only; it never opens a port.
func (c *toolConfig) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	if c.protocol != 1 && c.protocol != 2 {
		return fmt.Errorf("invalid protocol: %d (want 1 or 2)", c.protocol)
	}
	if c.baudrate <= 0 {
		return fmt.Errorf("baudrate must be > 0 (got %d)", c.baudrate)
	}
	if c.retries < 0 {
		return fmt.Errorf("retries must be >= 0 (got %d)", c.retries)
	}
	if c.readTO <= 0 {
		return errors.New("read-timeout must be > 0")
	}
	if c.port == "" {
		return errors.New("port must not be empty")
	}
	return nil
}

// applyEnvOverrides maps DYNAMIXEL_TOOL_* environment variables onto cfg,
// skipping any field whose flag was explicitly set (flag wins over env),
// mirroring the teacher's CAN_SERVER_* precedence rule.
func applyEnvOverrides(c *toolConfig, set map[string]struct{}) error {
	var firstErr error
	get := func(k string) (string, bool) { v, ok := os.LookupEnv(k); return strings.TrimSpace(v), ok }

	if _, ok := set["force"]; !ok {
		if v, ok := get("DYNAMIXEL_TOOL_FORCE"); ok && v != "" {
			c.force = isTruthy(v)
		}
	}
	if _, ok := set["debug"]; !ok {
		if v, ok := get("DYNAMIXEL_TOOL_DEBUG"); ok && v != "" {
			c.debug = isTruthy(v)
		}
	}
	if _, ok := set["port"]; !ok {
		if v, ok := get("DYNAMIXEL_TOOL_PORT"); ok && v != "" {
			c.port = v
		}
	}
	if _, ok := set["baudrate"]; !ok {
		if v, ok := get("DYNAMIXEL_TOOL_BAUDRATE"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.baudrate = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid DYNAMIXEL_TOOL_BAUDRATE: %w", err)
			}
		}
	}
	if _, ok := set["retries"]; !ok {
		if v, ok := get("DYNAMIXEL_TOOL_RETRIES"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				c.retries = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid DYNAMIXEL_TOOL_RETRIES: %w", err)
			}
		}
	}
	if _, ok := set["json"]; !ok {
		if v, ok := get("DYNAMIXEL_TOOL_JSON"); ok && v != "" {
			c.jsonOut = isTruthy(v)
		}
	}
	if _, ok := set["protocol"]; !ok {
		if v, ok := get("DYNAMIXEL_TOOL_PROTOCOL"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && (n == 1 || n == 2) {
				c.protocol = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid DYNAMIXEL_TOOL_PROTOCOL: %w", err)
			}
		}
	}
	if _, ok := set["read-timeout"]; !ok {
		if v, ok := get("DYNAMIXEL_TOOL_READ_TIMEOUT"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.readTO = d
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid DYNAMIXEL_TOOL_READ_TIMEOUT: %w", err)
			}
		}
	}
	return firstErr
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
