// Package profile provides optional runtime profiling for the dotini command.
//
// Profiling is backed by [github.com/pkg/profile] and only compiled in when
// building with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Profiler.Start] returns a no-op and [Modes] is empty, so
// callers never need their own build constraints.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      live heap profiling
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/dotini"}
//	defer p.Start().Stop()
//
// Profiles are written into Path named after the mode (cpu.pprof,
// mem.pprof, ...) and can be inspected with:
//
//	go tool pprof -http=: /tmp/dotini/cpu.pprof
//
// When built with the tag, the package also imports [net/http/pprof], which
// registers its handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
