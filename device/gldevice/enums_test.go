package gldevice

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
)

func TestTexelEnum(t *testing.T) {
	tests := []struct {
		name   string
		format device.TexelFormat
		want   uint32
		ok     bool
	}{
		{"r8i", device.TexelFormat{Components: 1, Type: device.ComponentInt8}, gl.R8I, true},
		{"rg16ui", device.TexelFormat{Components: 2, Type: device.ComponentUint16}, gl.RG16UI, true},
		{"rgb16f", device.TexelFormat{Components: 3, Type: device.ComponentFloat16}, gl.RGB16F, true},
		{"rgba32f", device.TexelFormat{Components: 4, Type: device.ComponentFloat32}, gl.RGBA32F, true},
		{"rgba32ui", device.TexelFormat{Components: 4, Type: device.ComponentUint32}, gl.RGBA32UI, true},
		{"double", device.TexelFormat{Components: 1, Type: device.ComponentFloat64}, 0, false},
		{"five components", device.TexelFormat{Components: 5, Type: device.ComponentFloat32}, 0, false},
		{"zero components", device.TexelFormat{Type: device.ComponentInt32}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := texelEnum(tt.format)
			if ok != tt.ok || got != tt.want {
				t.Errorf("texelEnum(%+v) = 0x%X, %v, want 0x%X, %v", tt.format, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestUsageEnum(t *testing.T) {
	tests := []struct {
		hint device.BufferHint
		want uint32
	}{
		{device.BufferHint{Frequency: device.FrequencyStream, Nature: device.NatureDraw}, gl.STREAM_DRAW},
		{device.BufferHint{Frequency: device.FrequencyStatic, Nature: device.NatureRead}, gl.STATIC_READ},
		{device.BufferHint{Frequency: device.FrequencyDynamic, Nature: device.NatureCopy}, gl.DYNAMIC_COPY},
		{device.BufferHint{Frequency: device.FrequencyStatic, Nature: device.NatureCopy}, gl.STATIC_COPY},
		{device.BufferHint{Frequency: 7, Nature: device.NatureDraw}, gl.STATIC_DRAW},
	}
	for _, tt := range tests {
		if got := usageEnum(tt.hint); got != tt.want {
			t.Errorf("usageEnum(%v/%v) = 0x%X, want 0x%X", tt.hint.Frequency, tt.hint.Nature, got, tt.want)
		}
	}
}

func TestPrimitiveEnum(t *testing.T) {
	tests := []struct {
		prim gputypes.PrimitiveTopology
		want uint32
	}{
		{gputypes.PrimitiveTopologyPointList, gl.POINTS},
		{gputypes.PrimitiveTopologyLineList, gl.LINES},
		{gputypes.PrimitiveTopologyLineStrip, gl.LINE_STRIP},
		{gputypes.PrimitiveTopologyTriangleList, gl.TRIANGLES},
		{gputypes.PrimitiveTopologyTriangleStrip, gl.TRIANGLE_STRIP},
	}
	for _, tt := range tests {
		got, ok := primitiveEnum(tt.prim)
		if !ok || got != tt.want {
			t.Errorf("primitiveEnum(%v) = 0x%X, %v, want 0x%X", tt.prim, got, ok, tt.want)
		}
	}
}

func TestStageAndTargetEnum(t *testing.T) {
	if _, ok := stageEnum(device.StageUnrecognized); ok {
		t.Error("stageEnum(unrecognized) should fail")
	}
	if got, _ := stageEnum(device.StageGeometry); got != gl.GEOMETRY_SHADER {
		t.Errorf("stageEnum(geometry) = 0x%X", got)
	}
	if _, ok := targetEnum(device.TargetNone); ok {
		t.Error("targetEnum(none) should fail")
	}
	if got, _ := targetEnum(device.TargetBuffer); got != gl.TEXTURE_BUFFER {
		t.Errorf("targetEnum(buffer) = 0x%X", got)
	}
	for c := device.ComponentInt8; c <= device.ComponentFloat64; c++ {
		if _, ok := componentEnum(c); !ok {
			t.Errorf("componentEnum(%v) unmapped", c)
		}
	}
}
