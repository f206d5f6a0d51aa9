//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// Provider errors.
var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gpu: nil DeviceProvider")

	// ErrNoHALAccess is returned when the provider does not expose hal
	// device and queue objects.
	ErrNoHALAccess = errors.New("gpu: provider does not expose HAL types")
)

// halProvider is implemented by providers that expose their hal objects,
// such as gogpu's application context.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// FromProvider creates a resolve pipeline on a shared device and
// initializes it for the provider's surface format.
//
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func FromProvider(provider gpucontext.DeviceProvider) (*ResolvePipeline, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}

	p := NewResolvePipeline(device, queue)
	if err := p.Init(provider.SurfaceFormat()); err != nil {
		return nil, err
	}
	return p, nil
}
