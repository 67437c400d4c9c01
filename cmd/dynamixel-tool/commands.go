package main

import (
	"fmt"
	"io"

	"github.com/xzz53/dynamixel-tool/internal/master"
	"github.com/xzz53/dynamixel-tool/internal/protocol"
	"github.com/xzz53/dynamixel-tool/internal/registry"
	"github.com/xzz53/dynamixel-tool/internal/serialport"
)

// openMaster resolves cfg.port (autodetecting if "auto"), configures RS-485
// if possible, and returns a Master bound to it. Callers must Close the
// returned closer.
func openMaster(cfg *toolConfig) (*master.Master, io.Closer, error) {
	name := cfg.port
	if name == "auto" {
		discovered, err := serialport.Discover()
		if err != nil {
			return nil, nil, fmt.Errorf("autodetect port: %w", err)
		}
		name = discovered
	}

	tr, err := serialport.OpenWithRS485(name, serialport.OpenOptions{
		Baud:        cfg.baudrate,
		ReadTimeout: cfg.readTO,
		Force:       cfg.force,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}

	version := protocol.V1
	if cfg.protocol == 2 {
		version = protocol.V2
	}
	m := master.New(tr, version, cfg.retries, master.WithReadDeadline(cfg.readTO))
	return m, tr, nil
}

func protoVersion(cfg *toolConfig) protocol.Version {
	if cfg.protocol == 2 {
		return protocol.V2
	}
	return protocol.V1
}

// runCommand dispatches cfg.command, writing its result to out.
func runCommand(cfg *toolConfig, out io.Writer) error {
	switch cfg.command {
	case "list-models":
		return cmdListModels(cfg, out)
	case "list-registers":
		return cmdListRegisters(cfg, out)
	case "scan":
		return cmdScan(cfg, out)
	case "read-uint8", "readb":
		return cmdRead(cfg, out, 1)
	case "read-uint16", "readh":
		return cmdRead(cfg, out, 2)
	case "read-uint32", "readw":
		return cmdRead(cfg, out, 4)
	case "read-bytes", "reada":
		return cmdReadBytes(cfg, out)
	case "read-bytes-multiple":
		return cmdReadBytesMultiple(cfg, out)
	case "read-reg":
		return cmdReadReg(cfg, out)
	case "write-uint8":
		return cmdWrite(cfg, out, 1)
	case "write-uint16":
		return cmdWrite(cfg, out, 2)
	case "write-uint32":
		return cmdWrite(cfg, out, 4)
	case "write-bytes":
		return cmdWriteBytes(cfg, out)
	case "write-bytes-multiple":
		return cmdWriteBytesMultiple(cfg, out)
	case "write-reg":
		return cmdWriteReg(cfg, out)
	default:
		return fmt.Errorf("unknown subcommand %q", cfg.command)
	}
}

func cmdListModels(cfg *toolConfig, out io.Writer) error {
	models := registry.ListModels(protoVersion(cfg))
	return emit(out, cfg, result{Models: models})
}

func cmdListRegisters(cfg *toolConfig, out io.Writer) error {
	if len(cfg.args) < 1 {
		return fmt.Errorf("list-registers requires a model argument")
	}
	regs := registry.ListRegisters(protoVersion(cfg), cfg.args[0])
	return emit(out, cfg, result{Registers: regs})
}

func cmdScan(cfg *toolConfig, out io.Writer) error {
	start, end := byte(0), byte(253)
	if len(cfg.args) > 0 {
		n, err := parseAddress(cfg.args[0])
		if err != nil {
			return fmt.Errorf("bad start: %w", err)
		}
		start = byte(n)
	}
	if len(cfg.args) > 1 {
		n, err := parseAddress(cfg.args[1])
		if err != nil {
			return fmt.Errorf("bad end: %w", err)
		}
		end = byte(n)
	}

	m, closer, err := openMaster(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	found, err := m.Scan(start, end)
	if err != nil {
		return err
	}
	return emit(out, cfg, result{Found: found})
}

func cmdRead(cfg *toolConfig, out io.Writer, width int) error {
	if len(cfg.args) < 2 {
		return fmt.Errorf("read requires <ids> <address>")
	}
	ids, err := parseIDRange(cfg.args[0])
	if err != nil {
		return err
	}
	addr, err := parseAddress(cfg.args[1])
	if err != nil {
		return err
	}

	m, closer, err := openMaster(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	var values []readResult
	for _, id := range ids {
		data, err := m.Read(id, uint16(addr), uint16(width))
		if err != nil {
			return fmt.Errorf("read id %d: %w", id, err)
		}
		values = append(values, readResult{ID: id, Data: bytesToHex(data)})
	}
	return emit(out, cfg, result{Values: values})
}

func cmdReadBytes(cfg *toolConfig, out io.Writer) error {
	if len(cfg.args) < 3 {
		return fmt.Errorf("read-bytes requires <ids> <address> <count>")
	}
	ids, err := parseIDRange(cfg.args[0])
	if err != nil {
		return err
	}
	addr, err := parseAddress(cfg.args[1])
	if err != nil {
		return err
	}
	count, err := parseAddress(cfg.args[2])
	if err != nil {
		return err
	}

	m, closer, err := openMaster(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	var values []readResult
	for _, id := range ids {
		data, err := m.Read(id, uint16(addr), uint16(count))
		if err != nil {
			return fmt.Errorf("read id %d: %w", id, err)
		}
		values = append(values, readResult{ID: id, Data: bytesToHex(data)})
	}
	return emit(out, cfg, result{Values: values})
}

func cmdReadBytesMultiple(cfg *toolConfig, out io.Writer) error {
	if len(cfg.args) == 0 {
		return fmt.Errorf("read-bytes-multiple requires at least one id:addr:size spec")
	}

	m, closer, err := openMaster(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	var values []readResult
	for _, s := range cfg.args {
		spec, err := parseSpec(s)
		if err != nil {
			return err
		}
		data, err := m.Read(spec.ID, spec.Address, spec.Size)
		if err != nil {
			return fmt.Errorf("read spec %q: %w", s, err)
		}
		values = append(values, readResult{ID: spec.ID, Data: bytesToHex(data)})
	}
	return emit(out, cfg, result{Values: values})
}

func cmdReadReg(cfg *toolConfig, out io.Writer) error {
	if len(cfg.args) < 2 {
		return fmt.Errorf("read-reg requires <ids> <model/name>")
	}
	ids, err := parseIDRange(cfg.args[0])
	if err != nil {
		return err
	}
	spec, err := registry.ParseRegSpec(cfg.args[1])
	if err != nil {
		return err
	}
	reg, err := registry.Find(protoVersion(cfg), spec)
	if err != nil {
		return err
	}

	m, closer, err := openMaster(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	width := uint16(reg.Size)
	if width == 0 {
		return fmt.Errorf("register %s has variable width; use read-bytes-multiple", cfg.args[1])
	}
	var values []readResult
	for _, id := range ids {
		data, err := m.Read(id, reg.Address, width)
		if err != nil {
			return fmt.Errorf("read id %d: %w", id, err)
		}
		values = append(values, readResult{ID: id, Data: bytesToHex(data)})
	}
	return emit(out, cfg, result{Values: values})
}

func cmdWrite(cfg *toolConfig, out io.Writer, width int) error {
	sync, args := extractSyncFlag(cfg.args)
	if len(args) < 3 {
		return fmt.Errorf("write requires <ids> <address> <value>")
	}
	ids, err := parseIDRange(args[0])
	if err != nil {
		return err
	}
	addr, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	value, err := parseAddress(args[2])
	if err != nil {
		return err
	}
	data := encodeUint(value, width)

	m, closer, err := openMaster(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	if sync {
		return writeSync(m, ids, uint16(addr), data)
	}
	return writeAll(m, ids, uint16(addr), data)
}

func cmdWriteBytes(cfg *toolConfig, out io.Writer) error {
	sync, args := extractSyncFlag(cfg.args)
	if len(args) < 3 {
		return fmt.Errorf("write-bytes requires <ids> <address> <hexbytes>")
	}
	ids, err := parseIDRange(args[0])
	if err != nil {
		return err
	}
	addr, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	data, err := decodeHex(args[2])
	if err != nil {
		return err
	}

	m, closer, err := openMaster(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	if sync {
		return writeSync(m, ids, uint16(addr), data)
	}
	return writeAll(m, ids, uint16(addr), data)
}

// extractSyncFlag removes a "--sync" token from args, wherever it appears,
// reporting whether it was present.
func extractSyncFlag(args []string) (bool, []string) {
	out := make([]string, 0, len(args))
	found := false
	for _, a := range args {
		if a == "--sync" {
			found = true
			continue
		}
		out = append(out, a)
	}
	return found, out
}

// writeSync issues a single V2 broadcast sync-write of data to every id, per
// spec.md §6 ("--sync switches to broadcast sync-write, V2 only").
func writeSync(m *master.Master, ids []byte, addr uint16, data []byte) error {
	datas := make([][]byte, len(ids))
	for i := range ids {
		datas[i] = data
	}
	return m.SyncWrite(ids, addr, datas)
}

func cmdWriteBytesMultiple(cfg *toolConfig, out io.Writer) error {
	if len(cfg.args) == 0 {
		return fmt.Errorf("write-bytes-multiple requires at least one id:addr:hexbytes spec")
	}

	m, closer, err := openMaster(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, s := range cfg.args {
		spec, err := parseSpec(s)
		if err != nil {
			return err
		}
		data, err := decodeHex(spec.Hex)
		if err != nil {
			return fmt.Errorf("spec %q: %w", s, err)
		}
		if err := m.Write(spec.ID, spec.Address, data); err != nil {
			return fmt.Errorf("write spec %q: %w", s, err)
		}
	}
	return nil
}

func cmdWriteReg(cfg *toolConfig, out io.Writer) error {
	if len(cfg.args) < 3 {
		return fmt.Errorf("write-reg requires <ids> <model/name> <value>")
	}
	ids, err := parseIDRange(cfg.args[0])
	if err != nil {
		return err
	}
	spec, err := registry.ParseRegSpec(cfg.args[1])
	if err != nil {
		return err
	}
	reg, err := registry.Find(protoVersion(cfg), spec)
	if err != nil {
		return err
	}
	value, err := parseAddress(cfg.args[2])
	if err != nil {
		return err
	}
	width := int(reg.Size)
	if width == 0 {
		return fmt.Errorf("register %s has variable width; use write-bytes-multiple", cfg.args[1])
	}
	data := encodeUint(value, width)

	m, closer, err := openMaster(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	return writeAll(m, ids, reg.Address, data)
}

// writeAll issues data to every id in ids, one Write per id. The --sync
// path is handled one level up via writeSync.
func writeAll(m *master.Master, ids []byte, addr uint16, data []byte) error {
	for _, id := range ids {
		if err := m.Write(id, addr, data); err != nil {
			return fmt.Errorf("write id %d: %w", id, err)
		}
	}
	return nil
}

func encodeUint(v uint64, width int) []byte {
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}
