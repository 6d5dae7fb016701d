package runner

import "testing"

func TestConsumeWordRequiresWordBoundary(t *testing.T) {
	rest := "rui64(0, 0) r 1"
	if consumeWord(&rest, "rui") {
		t.Fatalf("consumeWord matched \"rui\" as a prefix of \"rui64\", rest = %q", rest)
	}
	if !consumeWord(&rest, "rui64") {
		t.Fatalf("consumeWord failed to match \"rui64\"")
	}
	if rest != "(0, 0) r 1" {
		t.Errorf("rest = %q, want \"(0, 0) r 1\"", rest)
	}
}

func TestConsumeWordAllowsParenBoundary(t *testing.T) {
	rest := "dispatch(1, 1, 1)"
	if !consumeWord(&rest, "dispatch") {
		t.Fatal("consumeWord failed to match \"dispatch\" before '('")
	}
	if rest != "(1, 1, 1)" {
		t.Errorf("rest = %q, want \"(1, 1, 1)\"", rest)
	}
}

func TestConsumeWordRejectsPartialMatch(t *testing.T) {
	rest := "dispatchx 1 1 1"
	if consumeWord(&rest, "dispatch") {
		t.Fatal("consumeWord matched \"dispatch\" as a prefix of \"dispatchx\"")
	}
}

func TestParseVerbLineDispatch(t *testing.T) {
	v, err := parseVerbLine("dispatch 2 3 4")
	if err != nil {
		t.Fatalf("parseVerbLine() error = %v", err)
	}
	if v.Kind != VerbDispatch {
		t.Fatalf("Kind = %v, want VerbDispatch", v.Kind)
	}
	p, ok := v.Payload.(DispatchPayload)
	if !ok {
		t.Fatalf("Payload type = %T, want DispatchPayload", v.Payload)
	}
	if p != (DispatchPayload{X: 2, Y: 3, Z: 4}) {
		t.Errorf("Payload = %+v, want {2 3 4}", p)
	}
}

func TestParseVerbLineTodoAndBugPrefixes(t *testing.T) {
	v, err := parseVerbLine("todo bug draw quad")
	if err != nil {
		t.Fatalf("parseVerbLine() error = %v", err)
	}
	if !v.Todo || !v.Bug {
		t.Errorf("Todo=%v Bug=%v, want both true", v.Todo, v.Bug)
	}
	if v.Kind != VerbDrawQuad {
		t.Errorf("Kind = %v, want VerbDrawQuad", v.Kind)
	}
}

func TestParseVerbLineUnknownDirective(t *testing.T) {
	if _, err := parseVerbLine("frobnicate everything"); err == nil {
		t.Fatal("parseVerbLine() error = nil, want error for unknown directive")
	}
}

func TestParseVerbLineIntegerProbeFormatsRejected(t *testing.T) {
	tests := []string{
		"probe rtv 0 (0, 0) rui (1)",
		"probe rtv 0 (0, 0) rui64 (1)",
		"probe rtv 0 (0, 0) rgbai (1, 0, 0, 1)",
	}
	for _, line := range tests {
		if _, err := parseVerbLine(line); err == nil {
			t.Errorf("parseVerbLine(%q) error = nil, want unsupported-format error", line)
		}
	}
}

func TestParseVerbLineDraw(t *testing.T) {
	v, err := parseVerbLine("draw triangle list 6 2")
	if err != nil {
		t.Fatalf("parseVerbLine() error = %v", err)
	}
	p, ok := v.Payload.(DrawPayload)
	if !ok {
		t.Fatalf("Payload type = %T, want DrawPayload", v.Payload)
	}
	if p.Topology != "triangle list" || p.VertexCount != 6 || p.InstanceCount != 2 {
		t.Errorf("Payload = %+v", p)
	}
}

func TestParseVerbLineCopy(t *testing.T) {
	v, err := parseVerbLine("copy rtv 0 uav 1")
	if err != nil {
		t.Fatalf("parseVerbLine() error = %v", err)
	}
	p, ok := v.Payload.(CopyPayload)
	if !ok {
		t.Fatalf("Payload type = %T, want CopyPayload", v.Payload)
	}
	want := CopyPayload{SrcKind: ResourceRTV, SrcSlot: 0, DstKind: ResourceUAV, DstSlot: 1}
	if p != want {
		t.Errorf("Payload = %+v, want %+v", p, want)
	}
}

func TestParseVerbLineClipPlaneDisable(t *testing.T) {
	v, err := parseVerbLine("clip-plane 0 disable")
	if err != nil {
		t.Fatalf("parseVerbLine() error = %v", err)
	}
	p, ok := v.Payload.(ClipPlanePayload)
	if !ok {
		t.Fatalf("Payload type = %T, want ClipPlanePayload", v.Payload)
	}
	if !p.Disable || p.Index != 0 {
		t.Errorf("Payload = %+v, want Disable=true Index=0", p)
	}
}

func TestParseVerbLineAlphaTest(t *testing.T) {
	v, err := parseVerbLine("alpha test greater equal 0.5")
	if err != nil {
		t.Fatalf("parseVerbLine() error = %v", err)
	}
	p, ok := v.Payload.(AlphaTestPayload)
	if !ok {
		t.Fatalf("Payload type = %T, want AlphaTestPayload", v.Payload)
	}
	if p.Func != "greater equal" || p.Ref != 0.5 {
		t.Errorf("Payload = %+v, want Func=\"greater equal\" Ref=0.5", p)
	}
}

func TestParseVerbLineUniformFloat4(t *testing.T) {
	v, err := parseVerbLine("uniform 0 float4 1.0 2.0 3.0 4.0")
	if err != nil {
		t.Fatalf("parseVerbLine() error = %v", err)
	}
	p, ok := v.Payload.(UniformPayload)
	if !ok {
		t.Fatalf("Payload type = %T, want UniformPayload", v.Payload)
	}
	if p.Offset != 0 || p.Type != "float4" || len(p.Floats) != 4 {
		t.Errorf("Payload = %+v", p)
	}
}
