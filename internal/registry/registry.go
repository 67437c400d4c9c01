// Package registry is the static control-table catalog: for every
// supported model and protocol version, which named registers exist, at
// what address, how wide, and whether they're readable, writable, or
// both. It never talks to hardware; the CLI and bridge look names up
// here before issuing a master.Read/master.Write.
package registry

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

// Access describes whether a register may be read, written, or both.
type Access int

const (
	R Access = iota
	W
	RW
)

func (a Access) String() string {
	switch a {
	case R:
		return "R"
	case W:
		return "W"
	default:
		return "RW"
	}
}

// Size is a register's width in bytes. Variable-width registers (e.g. a
// model's ASCII name field) report Variable and carry their length
// separately wherever it's read.
type Size int

const (
	Byte     Size = 1
	Half     Size = 2
	Word     Size = 4
	Variable Size = 0
)

// Reg describes one named control-table entry.
type Reg struct {
	Model   string
	Proto   protocol.Version
	Name    string
	Address uint16
	Size    Size
	Access  Access
}

func (r Reg) String() string {
	return fmt.Sprintf("%4d %d %-2s %s", r.Address, r.Size, r.Access, r.Name)
}

// RegSpec is a parsed "model/name" register reference as taken from the
// CLI (spec.md §6).
type RegSpec struct {
	Model string
	Name  string
}

var regSpecRE = regexp.MustCompile(`^([-_[:alnum:]]+)/([-_[:alnum:]]+)$`)

// ErrBadRegSpec is returned when a "model/name" string fails to parse.
var ErrBadRegSpec = fmt.Errorf("registry: invalid register specification")

// ErrRegisterNotFound is returned when a parsed RegSpec names no known
// register for the given protocol version.
var ErrRegisterNotFound = fmt.Errorf("registry: register not found")

// ParseRegSpec parses a "model/name" string, e.g. "mx28/goal_position".
func ParseRegSpec(s string) (RegSpec, error) {
	m := regSpecRE.FindStringSubmatch(s)
	if m == nil {
		return RegSpec{}, ErrBadRegSpec
	}
	return RegSpec{Model: m[1], Name: m[2]}, nil
}

// ListModels returns every model name with at least one register defined
// for proto, sorted and de-duplicated.
func ListModels(proto protocol.Version) []string {
	seen := make(map[string]bool)
	var models []string
	for _, r := range regs {
		if r.Proto != proto || seen[r.Model] {
			continue
		}
		seen[r.Model] = true
		models = append(models, r.Model)
	}
	sort.Strings(models)
	return models
}

// ListRegisters returns every register defined for model under proto, in
// catalog order.
func ListRegisters(proto protocol.Version, model string) []Reg {
	var out []Reg
	for _, r := range regs {
		if r.Proto == proto && r.Model == model {
			out = append(out, r)
		}
	}
	return out
}

// Find resolves spec to its Reg definition under proto.
func Find(proto protocol.Version, spec RegSpec) (Reg, error) {
	for _, r := range regs {
		if r.Proto == proto && r.Model == spec.Model && r.Name == spec.Name {
			return r, nil
		}
	}
	return Reg{}, ErrRegisterNotFound
}
