// Package model holds the domain entities exchanged between the command
// router, the resolver, and the panel adapter.
package model

// EnvironmentVariable is a name/value/remark triple the panel injects into
// job execution contexts. Names are not unique on the panel.
type EnvironmentVariable struct {
	ID      int64
	Name    string
	Value   string
	Remark  string
	Enabled bool
}

// DisplayName returns the name the pagination engine filters on.
func (v EnvironmentVariable) DisplayName() string { return v.Name }
