package runner

import (
	"fmt"
	"strconv"
	"strings"
)

// TextureFormat mirrors the handful of gpucore.TextureFormat values a
// test-directive resource block can name (gogpu-gg's gpucore/types.go);
// it is not imported directly since gpucore belongs to the render
// engine's own module, not this compiler's dependency surface.
type TextureFormat int

const (
	FormatRGBA32Float TextureFormat = iota + 1
	FormatRG32Float
	FormatR32Float
	FormatRGBA8Unorm
	FormatBGRA8Unorm
	FormatR8Unorm
)

// ResourceKind distinguishes the five resource-block section kinds of
// §6.3, grounded on gpucore's BindingType/resource-usage split.
type ResourceKind int

const (
	ResourceSRV ResourceKind = iota
	ResourceUAV
	ResourceRTV
	ResourceDSV
	ResourceVB
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceSRV:
		return "srv"
	case ResourceUAV:
		return "uav"
	case ResourceRTV:
		return "rtv"
	case ResourceDSV:
		return "dsv"
	case ResourceVB:
		return "vb"
	default:
		return "unknown"
	}
}

var resourceHeaderPrefixes = map[ResourceKind]string{
	ResourceSRV: "srv",
	ResourceUAV: "uav",
	ResourceRTV: "rtv",
	ResourceVB:  "vb",
}

// ResourceBlock is a parsed "[srv N]"/"[uav N]"/"[rtv N]"/"[dsv]"/"[vb N]"
// section: a resource descriptor plus its literal initial contents, per
// parse_resource_directive in the original driver.
type ResourceBlock struct {
	Kind   ResourceKind
	Slot   int
	Format TextureFormat
	Size   [3]int // width, height, depth/array-layers; unset dimensions stay 0
	Stride int     // vertex-buffer element stride in bytes
	Levels int
	Data   []float32
}

func defaultResource(kind ResourceKind, slot int) ResourceBlock {
	blk := ResourceBlock{Kind: kind, Slot: slot, Levels: 1}
	switch kind {
	case ResourceVB:
		blk.Levels = 0
	default:
		blk.Format = FormatRGBA32Float
	}
	return blk
}

// parseResourceLine parses one body line of a resource block: "format
// <name>", "size <w> [h] [d]", "stride <n>", "levels <n>", or a literal
// data row (a whitespace-separated run of floats appended to Data).
func parseResourceLine(blk *ResourceBlock, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "format":
		if len(fields) != 2 {
			return fmt.Errorf("malformed format directive %q", line)
		}
		f, ok := lookupFormat(fields[1])
		if !ok {
			return fmt.Errorf("unknown resource format %q", fields[1])
		}
		blk.Format = f
		return nil
	case "size":
		dims := fields[1:]
		if len(dims) == 0 || len(dims) > 3 {
			return fmt.Errorf("malformed size directive %q", line)
		}
		for i, d := range dims {
			n, err := strconv.Atoi(d)
			if err != nil {
				return fmt.Errorf("malformed size dimension %q", d)
			}
			blk.Size[i] = n
		}
		return nil
	case "stride":
		if len(fields) != 2 {
			return fmt.Errorf("malformed stride directive %q", line)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("malformed stride value %q", fields[1])
		}
		blk.Stride = n
		return nil
	case "levels":
		if len(fields) != 2 {
			return fmt.Errorf("malformed levels directive %q", line)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("malformed levels value %q", fields[1])
		}
		blk.Levels = n
		return nil
	default:
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return fmt.Errorf("malformed resource literal %q", f)
			}
			blk.Data = append(blk.Data, float32(v))
		}
		return nil
	}
}

// formatNames maps the test-directive format keyword to the mirrored
// texture format it selects. Only the subset modeled above is
// recognized; other format keywords from the original (e.g. typed UAV
// byte-address formats) are out of scope.
var formatNames = map[string]TextureFormat{
	"r32g32b32a32-float": FormatRGBA32Float,
	"r32g32-float":       FormatRG32Float,
	"r32-float":          FormatR32Float,
	"r8g8b8a8-unorm":     FormatRGBA8Unorm,
	"b8g8r8a8-unorm":     FormatBGRA8Unorm,
	"r8-unorm":           FormatR8Unorm,
}

func lookupFormat(name string) (TextureFormat, bool) {
	f, ok := formatNames[strings.ToLower(name)]
	return f, ok
}
