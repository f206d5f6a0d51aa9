//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/texture_resolve.wgsl
var resolveShaderSource string

// Shader entry points.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// ShaderSource returns the WGSL source of the texture resolve shader.
func ShaderSource() string {
	return resolveShaderSource
}

// CompileSPIRV compiles the resolve shader to SPIR-V words.
func CompileSPIRV() ([]uint32, error) {
	spirvBytes, err := naga.Compile(resolveShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile texture_resolve shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("gpu: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// shaderModuleDescriptor returns the descriptor for the resolve shader.
// WGSL is passed through so the backend can translate it natively.
func shaderModuleDescriptor() *hal.ShaderModuleDescriptor {
	return &hal.ShaderModuleDescriptor{
		Label:  "texture_resolve_shader",
		Source: hal.ShaderSource{WGSL: resolveShaderSource},
	}
}
