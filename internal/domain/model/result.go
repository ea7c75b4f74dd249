package model

// Result is what the router hands back to the presentation layer on
// success. Failures travel as errors (see errors.go), never as Results.
type Result interface{ isResult() }

// VariablePage is the outcome of ListVariables.
type VariablePage struct{ Page Page[EnvironmentVariable] }

// VariableSaved reports the variable an add or update affected.
type VariableSaved struct{ Variable EnvironmentVariable }

// TaskPage is the outcome of ListTasks.
type TaskPage struct{ Page Page[ScheduledTask] }

// TaskLog carries one task's execution log text.
type TaskLog struct {
	TaskID  int64
	Content string
}

// SystemSnapshot is the outcome of GetSystemInfo.
type SystemSnapshot struct{ Info SystemInfo }

// Acted reports a completed action (delete, enable, run, pin, ...) and the
// identifier it was applied to.
type Acted struct {
	Action string
	ID     int64
	Name   string
}

func (VariablePage) isResult()   {}
func (VariableSaved) isResult()  {}
func (TaskPage) isResult()       {}
func (TaskLog) isResult()        {}
func (SystemSnapshot) isResult() {}
func (Acted) isResult()          {}
