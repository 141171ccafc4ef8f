// Package wide provides SIMD-friendly wide types for batch pixel composition.
//
// This package implements the U16x16 lane vector and the PixelBatch value type
// used by the compositor core. By using fixed-size arrays and simple loops,
// these types allow the Go compiler to generate SIMD instructions on supported
// architectures (SSE, AVX, NEON).
//
// # Lane arithmetic
//
// U16x16 holds 16 uint16 lanes. All channel arithmetic is 8-bit fixed point:
// 255 represents 1.0 and every product of two 0-255 values is normalized back
// into 0-255 range with Div255, which rounds to nearest and is bit-exact for
// all products of two 8-bit inputs.
//
// # PixelBatch
//
// PixelBatch describes a run of up to 16 pixels, lazily materialized in one or
// more numeric layouts: packed 8-bit bytes, widened 16-bit SoA channels, and
// alpha-only lanes. Consumers ask for the representation they need and the
// batch converts on demand, caching the result for the batch's lifetime.
//
// # Design Philosophy
//
//   - Use simple loops over fixed-size arrays for auto-vectorization
//   - Avoid unsafe and assembly - rely on compiler optimization
//   - Keep functions small and inlineable
package wide
