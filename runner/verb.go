package runner

import (
	"fmt"
	"strconv"
	"strings"
)

// VerbKind discriminates a Verb's payload, mirroring the tagged-variant
// idiom the compiler core itself uses for ir.Node (spec.md DESIGN NOTES
// "polymorphism over node kinds") rather than one struct per verb type.
type VerbKind int

const (
	VerbDispatch VerbKind = iota
	VerbClearRTV
	VerbClearDSV
	VerbDrawQuad
	VerbDraw
	VerbCopy
	VerbProbe
	VerbUniform
	VerbSampleMask
	VerbAlphaTest
	VerbDepth
	VerbDepthBounds
	VerbClipPlane
	VerbPointSize
	VerbPointSprite
	VerbFog
	VerbFogColour
	VerbShadeMode
)

// Verb is one parsed "[test]" body line.
type Verb struct {
	Kind    VerbKind
	Todo    bool
	Bug     bool
	Payload any
}

// DispatchPayload is VerbDispatch's payload.
type DispatchPayload struct{ X, Y, Z int }

// ClearPayload is VerbClearRTV/VerbClearDSV's payload.
type ClearPayload struct {
	Slot  int
	Value [4]float32
}

// DrawPayload is VerbDraw's payload. Topology is the literal topology
// keyword text (e.g. "triangle list") rather than a closed enum, since
// the keyword set already functions as the canonical spelling.
type DrawPayload struct {
	Topology      string
	VertexCount   int
	InstanceCount int
}

// CopyPayload is VerbCopy's payload: a source/destination resource
// reference pair, named by kind+slot the way parse_resource_reference
// resolves them against the already-declared resource blocks.
type CopyPayload struct {
	SrcKind, DstKind   ResourceKind
	SrcSlot, DstSlot   int
}

// ProbeTarget names which resource a probe verb reads back.
type ProbeTarget struct {
	Kind ResourceKind
	Slot int
}

// ProbePayload is VerbProbe's payload.
type ProbePayload struct {
	Target     ProbeTarget
	Rect       [4]int // left, top, right, bottom
	Format     string // rgba, rg, r or rd; parseProbe rejects the integer formats
	FloatValue [4]float32
	IntValue   [4]int64 // never set by parseProbe
	Ulps       int
}

// UniformPayload is VerbUniform's payload.
type UniformPayload struct {
	Offset int
	Type   string // float, float4, int, int4, uint, uint4, int64_t2, uint64_t2, double2
	Floats []float64
	Ints   []int64
}

// ClipPlanePayload is VerbClipPlane's payload.
type ClipPlanePayload struct {
	Index   int
	Disable bool
	Value   [4]float32
}

// PointSizePayload is VerbPointSize's payload.
type PointSizePayload struct{ Size, Min, Max float32 }

func parseVerbLine(line string) (Verb, error) {
	v := Verb{}
	rest := line

	for {
		switch {
		case consumeWord(&rest, "todo"):
			v.Todo = true
		case consumeWord(&rest, "bug"):
			v.Bug = true
		default:
			goto verbs
		}
	}

verbs:
	switch {
	case consumeWord(&rest, "dispatch"):
		return parseDispatch(v, rest)
	case consumeWord(&rest, "clear rtv"):
		return parseClearRTV(v, rest)
	case consumeWord(&rest, "clear dsv"):
		return parseClearDSV(v, rest)
	case consumeWord(&rest, "draw quad"):
		v.Kind = VerbDrawQuad
		return v, nil
	case consumeWord(&rest, "draw"):
		return parseDraw(v, rest)
	case consumeWord(&rest, "copy"):
		return parseCopy(v, rest)
	case consumeWord(&rest, "probe"):
		return parseProbe(v, rest)
	case consumeWord(&rest, "uniform"):
		return parseUniform(v, rest)
	case consumeWord(&rest, "sample mask"):
		return parseSampleMask(v, rest)
	case consumeWord(&rest, "alpha test"):
		return parseAlphaTest(v, rest)
	case consumeWord(&rest, "depth-bounds"):
		return parseDepthBounds(v, rest)
	case consumeWord(&rest, "depth"):
		v.Kind = VerbDepth
		v.Payload = strings.TrimSpace(rest)
		return v, nil
	case consumeWord(&rest, "shade mode"):
		v.Kind = VerbShadeMode
		v.Payload = strings.TrimSpace(rest) == "flat"
		return v, nil
	case consumeWord(&rest, "clip-plane"):
		return parseClipPlane(v, rest)
	case consumeWord(&rest, "point-size"):
		return parsePointSize(v, rest)
	case consumeWord(&rest, "point-sprite"):
		v.Kind = VerbPointSprite
		v.Payload = strings.TrimSpace(rest) == "on"
		return v, nil
	case consumeWord(&rest, "fog-colour"):
		return parseFogColour(v, rest)
	case consumeWord(&rest, "fog"):
		v.Kind = VerbFog
		v.Payload = strings.TrimSpace(rest)
		return v, nil
	default:
		return v, fmt.Errorf("unknown test directive %q", line)
	}
}

// consumeWord reports whether *line starts with word (after leading
// spaces) and, if so, advances *line past it. A match additionally
// requires a word boundary right after word — end of string, a space,
// or '('; tabs are not treated as spaces — mirroring match_string_generic's boundary check, so "rui"
// cannot spuriously match a leading "rui64".
func consumeWord(line *string, word string) bool {
	trimmed := strings.TrimLeft(*line, " ")
	if !strings.HasPrefix(trimmed, word) {
		return false
	}
	if len(trimmed) > len(word) {
		next := trimmed[len(word)]
		if next != ' ' && next != '(' {
			return false
		}
	}
	*line = trimmed[len(word):]
	return true
}

func fields(s string) []string { return strings.Fields(s) }

func parseDispatch(v Verb, rest string) (Verb, error) {
	f := fields(rest)
	if len(f) < 3 {
		return v, fmt.Errorf("malformed dispatch arguments %q", rest)
	}
	x, err1 := strconv.Atoi(f[0])
	y, err2 := strconv.Atoi(f[1])
	z, err3 := strconv.Atoi(f[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return v, fmt.Errorf("malformed dispatch arguments %q", rest)
	}
	v.Kind = VerbDispatch
	v.Payload = DispatchPayload{X: x, Y: y, Z: z}
	return v, nil
}

func parseClearRTV(v Verb, rest string) (Verb, error) {
	f := fields(rest)
	if len(f) < 5 {
		return v, fmt.Errorf("malformed rtv clear arguments %q", rest)
	}
	slot, err := strconv.Atoi(f[0])
	if err != nil {
		return v, fmt.Errorf("malformed rtv clear slot %q", f[0])
	}
	vals, err := parseFloats(f[1:5])
	if err != nil {
		return v, err
	}
	v.Kind = VerbClearRTV
	v.Payload = ClearPayload{Slot: slot, Value: [4]float32{vals[0], vals[1], vals[2], vals[3]}}
	return v, nil
}

func parseClearDSV(v Verb, rest string) (Verb, error) {
	f := fields(rest)
	if len(f) < 1 {
		return v, fmt.Errorf("malformed dsv clear arguments %q", rest)
	}
	d, err := strconv.ParseFloat(f[0], 32)
	if err != nil {
		return v, fmt.Errorf("malformed dsv clear arguments %q", rest)
	}
	v.Kind = VerbClearDSV
	v.Payload = ClearPayload{Value: [4]float32{float32(d)}}
	return v, nil
}

var topologies = []string{
	"triangle list", "triangle strip", "point list",
	"1 control point patch list", "2 control point patch list",
	"3 control point patch list", "4 control point patch list",
}

func parseDraw(v Verb, rest string) (Verb, error) {
	for _, topo := range topologies {
		if consumeWord(&rest, topo) {
			f := fields(rest)
			if len(f) < 1 {
				return v, fmt.Errorf("malformed vertex count %q", rest)
			}
			vc, err := strconv.Atoi(f[0])
			if err != nil {
				return v, fmt.Errorf("malformed vertex count %q", f[0])
			}
			ic := 1
			if len(f) >= 2 {
				if n, err := strconv.Atoi(f[1]); err == nil {
					ic = n
				}
			}
			v.Kind = VerbDraw
			v.Payload = DrawPayload{Topology: topo, VertexCount: vc, InstanceCount: ic}
			return v, nil
		}
	}
	return v, fmt.Errorf("unknown primitive topology %q", rest)
}

func parseCopy(v Verb, rest string) (Verb, error) {
	src, rest2, err := parseResourceReference(rest)
	if err != nil {
		return v, err
	}
	dst, _, err := parseResourceReference(rest2)
	if err != nil {
		return v, err
	}
	v.Kind = VerbCopy
	v.Payload = CopyPayload{SrcKind: src.Kind, SrcSlot: src.Slot, DstKind: dst.Kind, DstSlot: dst.Slot}
	return v, nil
}

// parseResourceReference parses a leading "<kind> <slot>" reference (e.g.
// "rtv 0", "uav 2") off rest, per parse_resource_reference, returning the
// remainder after the slot digits. "dsv" carries no slot.
func parseResourceReference(rest string) (ProbeTarget, string, error) {
	for kind, prefix := range resourceHeaderPrefixes {
		probe := rest
		if !consumeWord(&probe, prefix) {
			continue
		}
		probe = strings.TrimLeft(probe, " ")
		end := 0
		for end < len(probe) && probe[end] >= '0' && probe[end] <= '9' {
			end++
		}
		if end == 0 {
			return ProbeTarget{}, rest, fmt.Errorf("malformed resource reference %q", rest)
		}
		slot, _ := strconv.Atoi(probe[:end])
		return ProbeTarget{Kind: kind, Slot: slot}, probe[end:], nil
	}
	trimmed := strings.TrimLeft(rest, " ")
	if consumeWord(&trimmed, "dsv") {
		return ProbeTarget{Kind: ResourceDSV}, trimmed, nil
	}
	return ProbeTarget{}, rest, fmt.Errorf("malformed resource reference %q", rest)
}

func parseProbe(v Verb, rest string) (Verb, error) {
	v.Kind = VerbProbe
	target := ProbeTarget{Kind: ResourceRTV, Slot: 0}
	switch {
	case consumeWord(&rest, "uav"):
		f := fields(rest)
		if len(f) == 0 {
			return v, fmt.Errorf("malformed UAV index %q", rest)
		}
		slot, err := strconv.Atoi(f[0])
		if err != nil {
			return v, fmt.Errorf("malformed UAV index %q", f[0])
		}
		target = ProbeTarget{Kind: ResourceUAV, Slot: slot}
		rest = strings.TrimPrefix(strings.TrimLeft(rest, " "), f[0])
	case consumeWord(&rest, "rtv"):
		f := fields(rest)
		if len(f) == 0 {
			return v, fmt.Errorf("malformed render target index %q", rest)
		}
		slot, err := strconv.Atoi(f[0])
		if err != nil {
			return v, fmt.Errorf("malformed render target index %q", f[0])
		}
		target = ProbeTarget{Kind: ResourceRTV, Slot: slot}
		rest = strings.TrimPrefix(strings.TrimLeft(rest, " "), f[0])
	case consumeWord(&rest, "dsv"):
		target = ProbeTarget{Kind: ResourceDSV}
	}

	rect, rest, err := parseProbeRect(rest)
	if err != nil {
		return v, err
	}

	payload := ProbePayload{Target: target, Rect: rect}
	rest = strings.TrimLeft(rest, " ")
	switch {
	case consumeWord(&rest, "rgbaui"), consumeWord(&rest, "rgbai"):
		return v, fmt.Errorf("integer rgba probes are not yet supported")
	case consumeWord(&rest, "rgba"):
		payload.Format = "rgba"
		vals, ulps, err := parseProbeFloats(rest, 4)
		if err != nil {
			return v, err
		}
		copy(payload.FloatValue[:], vals)
		payload.Ulps = ulps
	case consumeWord(&rest, "rg"):
		payload.Format = "rg"
		vals, ulps, err := parseProbeFloats(rest, 2)
		if err != nil {
			return v, err
		}
		copy(payload.FloatValue[:], vals)
		payload.Ulps = ulps
	case consumeWord(&rest, "rui"), consumeWord(&rest, "ri"):
		return v, fmt.Errorf("integer scalar probes are not yet supported")
	case consumeWord(&rest, "rui64"), consumeWord(&rest, "ri64"):
		return v, fmt.Errorf("64-bit integer probes are not yet supported")
	case consumeWord(&rest, "rd"):
		payload.Format = "rd"
		vals, ulps, err := parseProbeFloats(rest, 1)
		if err != nil {
			return v, err
		}
		copy(payload.FloatValue[:], vals)
		payload.Ulps = ulps
	case consumeWord(&rest, "r"):
		payload.Format = "r"
		vals, ulps, err := parseProbeFloats(rest, 1)
		if err != nil {
			return v, err
		}
		copy(payload.FloatValue[:], vals)
		payload.Ulps = ulps
	default:
		return v, fmt.Errorf("malformed probe arguments %q", rest)
	}
	v.Payload = payload
	return v, nil
}

// parseProbeRect parses "(l,t,r,b)", "(l,t)", or "(n)" probe
// coordinates, per the three sscanf alternatives in the original.
func parseProbeRect(rest string) (rect [4]int, tail string, err error) {
	rest = strings.TrimLeft(rest, " ")
	if !strings.HasPrefix(rest, "(") {
		return rect, rest, fmt.Errorf("malformed probe arguments %q", rest)
	}
	closeIdx := strings.IndexByte(rest, ')')
	if closeIdx < 0 {
		return rect, rest, fmt.Errorf("malformed probe arguments %q", rest)
	}
	inner := rest[1:closeIdx]
	tail = rest[closeIdx+1:]
	parts := strings.Split(inner, ",")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return rect, tail, fmt.Errorf("malformed probe arguments %q", rest)
		}
		nums = append(nums, n)
	}
	switch len(nums) {
	case 4:
		return [4]int{nums[0], nums[1], nums[2], nums[3]}, tail, nil
	case 2:
		return [4]int{nums[0], nums[1], nums[0] + 1, nums[1] + 1}, tail, nil
	case 1:
		return [4]int{nums[0], 0, nums[0] + 1, 1}, tail, nil
	default:
		return rect, tail, fmt.Errorf("malformed probe arguments %q", rest)
	}
}

// parseProbeFloats parses "(v0, v1, ...) [ulps]".
func parseProbeFloats(rest string, n int) ([]float32, int, error) {
	rest = strings.TrimLeft(rest, " ")
	if !strings.HasPrefix(rest, "(") {
		return nil, 0, fmt.Errorf("malformed probe arguments %q", rest)
	}
	closeIdx := strings.IndexByte(rest, ')')
	if closeIdx < 0 {
		return nil, 0, fmt.Errorf("malformed probe arguments %q", rest)
	}
	inner := strings.Split(rest[1:closeIdx], ",")
	if len(inner) < n {
		return nil, 0, fmt.Errorf("malformed probe arguments %q", rest)
	}
	vals, err := parseFloats(inner[:n])
	if err != nil {
		return nil, 0, err
	}
	ulps := 0
	if f := fields(rest[closeIdx+1:]); len(f) > 0 {
		if u, err := strconv.Atoi(f[0]); err == nil {
			ulps = u
		}
	}
	return vals, ulps, nil
}

func parseFloats(fs []string) ([]float32, error) {
	out := make([]float32, 0, len(fs))
	for _, f := range fs {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("malformed float constant %q", f)
		}
		out = append(out, float32(v))
	}
	return out, nil
}

func parseUniform(v Verb, rest string) (Verb, error) {
	f := fields(rest)
	if len(f) < 1 {
		return v, fmt.Errorf("malformed uniform offset %q", rest)
	}
	offset, err := strconv.Atoi(f[0])
	if err != nil {
		return v, fmt.Errorf("malformed uniform offset %q", f[0])
	}
	if len(f) < 2 {
		return v, fmt.Errorf("missing uniform type %q", rest)
	}
	typ := f[1]
	args := f[2:]

	payload := UniformPayload{Offset: offset, Type: typ}
	switch typ {
	case "float4", "double2":
		vals, err := parseDoubles(args)
		if err != nil {
			return v, err
		}
		payload.Floats = vals
	case "float":
		vals, err := parseDoubles(args)
		if err != nil {
			return v, err
		}
		payload.Floats = vals
	case "int4", "int", "uint4", "uint", "int64_t2", "uint64_t2":
		vals, err := parseInts(args)
		if err != nil {
			return v, err
		}
		payload.Ints = vals
	default:
		return v, fmt.Errorf("unknown uniform type %q", typ)
	}
	v.Kind = VerbUniform
	v.Payload = payload
	return v, nil
}

func parseDoubles(fs []string) ([]float64, error) {
	out := make([]float64, 0, len(fs))
	for _, f := range fs {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed numeric constant %q", f)
		}
		out = append(out, val)
	}
	return out, nil
}

func parseInts(fs []string) ([]int64, error) {
	out := make([]int64, 0, len(fs))
	for _, f := range fs {
		val, err := strconv.ParseInt(f, 0, 64)
		if err != nil {
			uval, uerr := strconv.ParseUint(f, 0, 64)
			if uerr != nil {
				return nil, fmt.Errorf("malformed integer constant %q", f)
			}
			val = int64(uval)
		}
		out = append(out, val)
	}
	return out, nil
}

func parseSampleMask(v Verb, rest string) (Verb, error) {
	f := fields(rest)
	if len(f) < 1 {
		return v, fmt.Errorf("malformed sample mask %q", rest)
	}
	mask, err := strconv.ParseUint(f[0], 0, 32)
	if err != nil {
		return v, fmt.Errorf("malformed sample mask %q", f[0])
	}
	v.Kind = VerbSampleMask
	v.Payload = uint32(mask)
	return v, nil
}

// AlphaTestPayload is VerbAlphaTest's payload.
type AlphaTestPayload struct {
	Func string
	Ref  float32
}

func parseAlphaTest(v Verb, rest string) (Verb, error) {
	rest = strings.TrimLeft(rest, " ")
	fn, tail := parseComparisonFunc(rest)
	f := fields(tail)
	if len(f) < 1 {
		return v, fmt.Errorf("malformed alpha test reference %q", rest)
	}
	ref, err := strconv.ParseFloat(f[0], 32)
	if err != nil {
		return v, fmt.Errorf("malformed alpha test reference %q", f[0])
	}
	v.Kind = VerbAlphaTest
	v.Payload = AlphaTestPayload{Func: fn, Ref: float32(ref)}
	return v, nil
}

var comparisonFuncs = []string{
	"never", "less equal", "less", "greater equal", "greater",
	"equal", "not equal", "always",
}

func parseComparisonFunc(rest string) (fn string, tail string) {
	for _, c := range comparisonFuncs {
		if consumeWord(&rest, c) {
			return c, rest
		}
	}
	return "always", rest
}

func parseDepthBounds(v Verb, rest string) (Verb, error) {
	f := fields(rest)
	if len(f) < 2 {
		return v, fmt.Errorf("malformed depth-bounds arguments %q", rest)
	}
	min, err1 := strconv.ParseFloat(f[0], 32)
	max, err2 := strconv.ParseFloat(f[1], 32)
	if err1 != nil || err2 != nil {
		return v, fmt.Errorf("malformed depth-bounds arguments %q", rest)
	}
	v.Kind = VerbDepthBounds
	v.Payload = [2]float32{float32(min), float32(max)}
	return v, nil
}

func parseClipPlane(v Verb, rest string) (Verb, error) {
	rest = strings.TrimLeft(rest, " ")
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return v, fmt.Errorf("malformed clip plane directive %q", rest)
	}
	index, _ := strconv.Atoi(rest[:end])
	if index >= 8 {
		return v, fmt.Errorf("malformed clip plane directive %q", rest)
	}
	rest = strings.TrimLeft(rest[end:], " ")

	v.Kind = VerbClipPlane
	if consumeWord(&rest, "disable") {
		v.Payload = ClipPlanePayload{Index: index, Disable: true}
		return v, nil
	}
	f := fields(rest)
	vals, err := parseFloats(f)
	if err != nil || len(vals) < 4 {
		return v, fmt.Errorf("malformed float4 constant %q", rest)
	}
	v.Payload = ClipPlanePayload{Index: index, Value: [4]float32{vals[0], vals[1], vals[2], vals[3]}}
	return v, nil
}

func parsePointSize(v Verb, rest string) (Verb, error) {
	f := fields(rest)
	if len(f) < 3 {
		return v, fmt.Errorf("malformed point-size arguments %q", rest)
	}
	vals, err := parseFloats(f[:3])
	if err != nil {
		return v, err
	}
	v.Kind = VerbPointSize
	v.Payload = PointSizePayload{Size: vals[0], Min: vals[1], Max: vals[2]}
	return v, nil
}

func parseFogColour(v Verb, rest string) (Verb, error) {
	f := fields(rest)
	vals, err := parseFloats(f)
	if err != nil || len(vals) < 4 {
		return v, fmt.Errorf("malformed float4 constant %q", rest)
	}
	v.Kind = VerbFogColour
	v.Payload = [4]float32{vals[0], vals[1], vals[2], vals[3]}
	return v, nil
}
