package registry

import (
	"errors"
	"testing"

	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

func TestParseRegSpec(t *testing.T) {
	spec, err := ParseRegSpec("mx28/goal_position")
	if err != nil {
		t.Fatalf("ParseRegSpec: %v", err)
	}
	if spec.Model != "mx28" || spec.Name != "goal_position" {
		t.Fatalf("got %+v", spec)
	}
}

func TestParseRegSpecRejectsMalformed(t *testing.T) {
	for _, s := range []string{"mx28", "mx28/", "/goal_position", "mx28:goal_position"} {
		if _, err := ParseRegSpec(s); !errors.Is(err, ErrBadRegSpec) {
			t.Fatalf("ParseRegSpec(%q): got %v, want ErrBadRegSpec", s, err)
		}
	}
}

func TestFindKnownRegister(t *testing.T) {
	r, err := Find(protocol.V2, RegSpec{Model: "mx28", Name: "goal_position"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if r.Address != 116 || r.Size != Word || r.Access != RW {
		t.Fatalf("got %+v", r)
	}
}

func TestFindUnknownRegisterReturnsError(t *testing.T) {
	_, err := Find(protocol.V2, RegSpec{Model: "mx28", Name: "does_not_exist"})
	if !errors.Is(err, ErrRegisterNotFound) {
		t.Fatalf("got %v, want ErrRegisterNotFound", err)
	}

	// A V1 lookup against a V2-only model also misses, even if the name
	// exists under another protocol version.
	_, err = Find(protocol.V1, RegSpec{Model: "mx28", Name: "goal_position"})
	if !errors.Is(err, ErrRegisterNotFound) {
		t.Fatalf("got %v, want ErrRegisterNotFound", err)
	}
}

func TestListModelsIsSortedAndScopedByProto(t *testing.T) {
	v1 := ListModels(protocol.V1)
	v2 := ListModels(protocol.V2)

	if len(v1) == 0 || len(v2) == 0 {
		t.Fatalf("expected registers under both protocol versions")
	}
	for i := 1; i < len(v2); i++ {
		if v2[i-1] > v2[i] {
			t.Fatalf("ListModels(V2) not sorted: %v", v2)
		}
	}
	for _, m := range v1 {
		if m == "mx28" {
			t.Fatalf("ax12's protocol-1 model list should not include V2-only mx28")
		}
	}
}

func TestListRegistersMatchesModelAndProto(t *testing.T) {
	regs := ListRegisters(protocol.V1, "ax12")
	if len(regs) == 0 {
		t.Fatal("expected at least one ax12 register")
	}
	for _, r := range regs {
		if r.Model != "ax12" || r.Proto != protocol.V1 {
			t.Fatalf("got register from wrong model/proto: %+v", r)
		}
	}
}
