package model

// SystemInfo is a read-only snapshot of the panel's own state.
type SystemInfo struct {
	Version     string
	Branch      string
	Initialized bool
}
