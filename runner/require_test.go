package runner

import "testing"

func TestParseRequireLineMinAndMaxModel(t *testing.T) {
	var d *RequireDirective
	var err error
	d, err = parseRequireLine(d, "shader model >= 4_0")
	if err != nil {
		t.Fatalf("parseRequireLine() error = %v", err)
	}
	d, err = parseRequireLine(d, "shader model < 6_0")
	if err != nil {
		t.Fatalf("parseRequireLine() error = %v", err)
	}
	if d.MinModel != "4_0" || d.MaxModel != "6_0" {
		t.Errorf("d = %+v, want MinModel=4_0 MaxModel=6_0", d)
	}
}

func TestParseRequireLineRejectsUnknownModel(t *testing.T) {
	var d *RequireDirective
	if _, err := parseRequireLine(d, "shader model >= 9_9"); err == nil {
		t.Error("parseRequireLine() error = nil, want error for unknown model")
	}
}

func TestParseRequireLineOptions(t *testing.T) {
	var d *RequireDirective
	d, err := parseRequireLine(d, "options: row-major backcompat")
	if err != nil {
		t.Fatalf("parseRequireLine() error = %v", err)
	}
	if d.Options&OptionRowMajor == 0 || d.Options&OptionBackcompat == 0 {
		t.Errorf("d.Options = %b, want row-major|backcompat set", d.Options)
	}
	if d.Options&OptionColumnMajor != 0 {
		t.Error("d.Options has OptionColumnMajor set, want unset")
	}
}

func TestParseRequireLineCapabilities(t *testing.T) {
	var d *RequireDirective
	d, err := parseRequireLine(d, "point-size")
	if err != nil {
		t.Fatalf("parseRequireLine() error = %v", err)
	}
	if !d.Caps[CapPointSize] {
		t.Error("d.Caps[CapPointSize] = false, want true")
	}
}

func TestParseRequireLineRejectsUnknownDirective(t *testing.T) {
	var d *RequireDirective
	if _, err := parseRequireLine(d, "some-made-up-thing"); err == nil {
		t.Error("parseRequireLine() error = nil, want error for unknown directive")
	}
}
