package viewruntime

// devMode gates assertions and debug wrappers across the module. It is a
// plain bool rather than an atomic: the runtime is single-threaded and the
// flag must be set before any view work starts.
var devMode = false

// SetDevMode enables or disables development-mode assertions. Call once at
// startup, before creating any views. With the flag off each assertion
// helper returns after a single flag test.
func SetDevMode(on bool) {
	devMode = on
}

// DevMode reports whether development-mode assertions are enabled.
func DevMode() bool {
	return devMode
}
