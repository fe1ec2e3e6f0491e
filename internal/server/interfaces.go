package server

// Server is the lifecycle of the running process.
type Server interface {
	// RunServer serves until a stop signal arrives, then shuts down.
	RunServer()

	// Shutdown stops accepting requests, waits for in-flight ones and stops
	// the workers, bounded by the configured shutdown timeout.
	Shutdown()
}
