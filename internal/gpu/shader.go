//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded fill shader source.
//
//go:embed shaders/fill.wgsl
var fillShaderSource string

// edgeAADecl is the declaration toggled when edge antialiasing is off.
const edgeAADecl = "const EDGE_AA: bool = true;"

// fillShaderWGSL returns the fill shader with the EDGE_AA constant set.
func fillShaderWGSL(edgeAA bool) string {
	if edgeAA {
		return fillShaderSource
	}
	return strings.Replace(fillShaderSource, edgeAADecl, "const EDGE_AA: bool = false;", 1)
}

// compileToSPIRV compiles WGSL source to SPIR-V words with naga.
func compileToSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile fill shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// fillShaderSourceFor returns the shader module source, precompiled to
// SPIR-V when requested.
func fillShaderSourceFor(edgeAA, precompile bool) (hal.ShaderSource, error) {
	wgsl := fillShaderWGSL(edgeAA)
	if !precompile {
		return hal.ShaderSource{WGSL: wgsl}, nil
	}
	words, err := compileToSPIRV(wgsl)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{SPIRV: words}, nil
}
