// Package profile provides optional runtime profiling for defconf.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Profiler.Start] is a no-op and [Modes] is empty.
//
// # Modes
//
// With the tag, [Modes] lists the supported modes: allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread and trace. The CLI exposes them with
// the --pprof-mode flag and writes profiles below --pprof-dir, which
// defaults to $XDG_CACHE_HOME/defconf/pprof.
//
//	defconf --pprof-mode cpu big.conf > /dev/null
//	go tool pprof -http=: ~/.cache/defconf/pprof/cpu.pprof
//
// Building with the tag also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux]; defconf itself never serves them.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
