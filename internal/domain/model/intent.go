package model

// Intent is the closed set of commands the router accepts. The chat or CLI
// layer parses operator input into one of these variants; the router never
// sees raw text.
type Intent interface{ isIntent() }

// ListVariables lists environment variables, paged and optionally searched.
type ListVariables struct{ Page PageRequest }

// AddVariable creates a new environment variable.
type AddVariable struct {
	Name   string
	Value  string
	Remark string
}

// UpdateVariable replaces a variable's value, keeping its name and remark.
type UpdateVariable struct {
	Ref   Ref
	Value string
}

// DeleteVariable removes a variable.
type DeleteVariable struct{ Ref Ref }

// SetVariableEnabled enables or disables a variable.
type SetVariableEnabled struct {
	Ref     Ref
	Enabled bool
}

// ListTasks lists scheduled tasks, paged and optionally searched.
type ListTasks struct{ Page PageRequest }

// RunTask starts a task immediately.
type RunTask struct{ Ref Ref }

// StopTask stops a running task.
type StopTask struct{ Ref Ref }

// GetTaskLog fetches the latest execution log of a task.
type GetTaskLog struct{ Ref Ref }

// SetTaskEnabled enables or disables a task's schedule.
type SetTaskEnabled struct {
	Ref     Ref
	Enabled bool
}

// PinTask pins a task to the top of the panel's listing.
type PinTask struct{ Ref Ref }

// UnpinTask removes a task's pin.
type UnpinTask struct{ Ref Ref }

// DeleteTask removes a task.
type DeleteTask struct{ Ref Ref }

// GetSystemInfo fetches the panel's system snapshot.
type GetSystemInfo struct{}

func (ListVariables) isIntent()      {}
func (AddVariable) isIntent()        {}
func (UpdateVariable) isIntent()     {}
func (DeleteVariable) isIntent()     {}
func (SetVariableEnabled) isIntent() {}
func (ListTasks) isIntent()          {}
func (RunTask) isIntent()            {}
func (StopTask) isIntent()           {}
func (GetTaskLog) isIntent()         {}
func (SetTaskEnabled) isIntent()     {}
func (PinTask) isIntent()            {}
func (UnpinTask) isIntent()          {}
func (DeleteTask) isIntent()         {}
func (GetSystemInfo) isIntent()      {}
