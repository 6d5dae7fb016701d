// Package runner parses the line-oriented test-directive files described
// in spec.md §6.3: a sequence of "[section]" headers followed by
// section-specific body lines. This is an external-tooling contract only
// — a driver that exercises a compiled shader against a real GPU backend
// (gogpu/wgpu's gpucore types ground the resource-block shapes below) —
// and is never imported by the compiler core itself.
package runner

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TestFile is the parsed form of one test-directive file.
type TestFile struct {
	Require      *RequireDirective
	Shaders      []ShaderDirective
	Resources    []ResourceBlock
	Samplers     []SamplerBlock
	InputLayout  []InputLayoutElement
	Tests        []Verb
	Preprocessed []PreprocBlock
}

// ParseError reports a malformed line, with the 1-based source line
// number the way the original driver's fatal_error reports it.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// parser walks the file's lines feeding a small per-section state
// machine, mirroring the original's STATE_* dispatch in
// run_shader_tests's main loop.
type parser struct {
	file       *TestFile
	lineNumber int

	section     sectionKind
	currentRes  *ResourceBlock
	currentSmp  *SamplerBlock
	currentShd  *ShaderDirective
	shaderLines []string
	preproc     *PreprocBlock
}

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionRequire
	sectionShader
	sectionResource
	sectionSampler
	sectionInputLayout
	sectionTest
	sectionPreproc
)

// Parse reads a complete test-directive file from r.
func Parse(r io.Reader) (*TestFile, error) {
	p := &parser{file: &TestFile{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.lineNumber++
		line := scanner.Text()
		if err := p.consume(line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("runner: reading test file: %w", err)
	}
	p.flushShader()
	p.flushPreproc()
	return p.file, nil
}

func (p *parser) consume(line string) error {
	trimmed := strings.TrimRight(line, "\r\n")

	if strings.HasPrefix(trimmed, "[") {
		p.flushShader()
		p.flushPreproc()
		return p.enterSection(trimmed)
	}
	if trimmed == "" || strings.HasPrefix(trimmed, "%") {
		return nil
	}
	return p.dispatchLine(trimmed)
}

func (p *parser) err(format string, args ...any) error {
	return &ParseError{Line: p.lineNumber, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) dispatchLine(line string) error {
	switch p.section {
	case sectionRequire:
		d, err := parseRequireLine(p.file.Require, line)
		if err != nil {
			return p.err("%s", err)
		}
		p.file.Require = d
	case sectionShader:
		p.shaderLines = append(p.shaderLines, line)
	case sectionResource:
		if p.currentRes == nil {
			return p.err("resource directive outside any resource block")
		}
		if err := parseResourceLine(p.currentRes, line); err != nil {
			return p.err("%s", err)
		}
	case sectionSampler:
		if p.currentSmp == nil {
			return p.err("sampler directive outside any sampler block")
		}
		if err := parseSamplerLine(p.currentSmp, line); err != nil {
			return p.err("%s", err)
		}
	case sectionInputLayout:
		elem, err := parseInputLayoutLine(line)
		if err != nil {
			return p.err("%s", err)
		}
		p.file.InputLayout = append(p.file.InputLayout, elem)
	case sectionTest:
		verb, err := parseVerbLine(line)
		if err != nil {
			return p.err("%s", err)
		}
		p.file.Tests = append(p.file.Tests, verb)
	case sectionPreproc:
		if p.preproc != nil {
			p.preproc.Source += line + "\n"
		}
	default:
		return p.err("malformed line %q outside any section", line)
	}
	return nil
}

func (p *parser) flushShader() {
	if p.currentShd == nil {
		return
	}
	p.currentShd.Source = strings.Join(p.shaderLines, "\n")
	p.file.Shaders = append(p.file.Shaders, *p.currentShd)
	p.currentShd = nil
	p.shaderLines = nil
}

func (p *parser) flushPreproc() {
	if p.preproc == nil {
		return
	}
	p.file.Preprocessed = append(p.file.Preprocessed, *p.preproc)
	p.preproc = nil
}
