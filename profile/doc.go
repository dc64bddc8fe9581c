// Package profile starts optional runtime profiling of the lala command.
//
// Profiling is compiled in only when building with the [Tag] build tag:
//
//	go build -tags pprof .
//	lala --pprof-mode cpu run script.lala
//
// Without the tag, [Modes] is empty and every [Profiler] is a no-op, so
// callers never need build tags of their own.
//
// Profiles are written by [github.com/pkg/profile] to the configured
// directory (by default the pprof subdirectory of the user cache directory)
// and can be inspected with:
//
//	go tool pprof -http=: ~/.cache/lala/pprof/cpu.pprof
//
// Builds with the tag also register the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
