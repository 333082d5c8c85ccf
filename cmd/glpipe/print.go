package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/gltype"
)

// printCapture writes the captured values of every varying, one line per
// vertex.
func printCapture(w io.Writer, out *glpipe.Output) error {
	fmt.Fprintf(w, "primitives written: %d\n", out.PrimitivesWritten())
	offset := 0
	for _, v := range out.Varyings() {
		b := v.Buffer()
		if b == nil {
			return fmt.Errorf("varying %s: %w", v.Name(), glpipe.ErrNoBuffer)
		}
		data, err := b.Bytes()
		if err != nil {
			return fmt.Errorf("varying %s: %w", v.Name(), err)
		}
		stride, start := v.UnitSize(), 0
		if out.Interleaved() {
			stride, start = out.Stride(), offset
			offset += v.UnitSize()
		}
		desc := v.Type()
		fmt.Fprintf(w, "%s (%v x%d):\n", v.Name(), desc.Element, desc.Components())
		for i, rec := range records(data, stride, start, v.UnitSize()) {
			fmt.Fprintf(w, "  %4d: %s\n", i, formatValues(rec, desc.Element))
		}
	}
	return nil
}

// records splits data into per-vertex slices of size bytes found at
// offset within each stride.
func records(data []byte, stride, offset, size int) [][]byte {
	if stride <= 0 || size <= 0 {
		return nil
	}
	var out [][]byte
	for base := 0; base+offset+size <= len(data); base += stride {
		out = append(out, data[base+offset:base+offset+size])
	}
	return out
}

func formatValues(rec []byte, el gltype.ElementKind) string {
	size := el.Size()
	if size == 0 {
		return fmt.Sprintf("% x", rec)
	}
	parts := make([]string, 0, len(rec)/size)
	for i := 0; i+size <= len(rec); i += size {
		word := rec[i : i+size]
		switch el {
		case gltype.ElementInt:
			parts = append(parts, fmt.Sprint(int32(binary.NativeEndian.Uint32(word))))
		case gltype.ElementUint:
			parts = append(parts, fmt.Sprint(binary.NativeEndian.Uint32(word)))
		case gltype.ElementFloat:
			parts = append(parts, fmt.Sprintf("%g", math.Float32frombits(binary.NativeEndian.Uint32(word))))
		case gltype.ElementDouble:
			parts = append(parts, fmt.Sprintf("%g", math.Float64frombits(binary.NativeEndian.Uint64(word))))
		}
	}
	return strings.Join(parts, " ")
}
