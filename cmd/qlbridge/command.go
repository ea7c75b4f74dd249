package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qlbridge/qlbridge/internal/domain/model"
)

const usage = `qlbridge - manage a QingLong panel from the command line

Environment variables:
  qlbridge envs [search] [page]          list environment variables
  qlbridge env add <name> <value> [remark...]
  qlbridge env update <name|id:N> <value...>
  qlbridge env delete <name|id:N>
  qlbridge env enable|disable <name|id:N>

Scheduled tasks:
  qlbridge tasks [search] [page]         list tasks
  qlbridge task run|stop|log <name|id:N>
  qlbridge task enable|disable <name|id:N>
  qlbridge task pin|unpin|delete <name|id:N>

System:
  qlbridge info                          panel system info

Entities may be referenced by bare name or by the explicit id:<N> form.
Configuration comes from QLBRIDGE_* environment variables.

Flags:
`

// parseIntent turns positional CLI arguments into one of the router's
// closed intent variants. Only presence validation happens here; the
// router re-validates required fields.
func parseIntent(args []string) (model.Intent, error) {
	switch args[0] {
	case "envs":
		page, err := parsePageArgs(args[1:])
		if err != nil {
			return nil, err
		}
		return model.ListVariables{Page: page}, nil

	case "env":
		if len(args) < 2 {
			return nil, &model.ValidationError{Field: "env subcommand"}
		}
		return parseEnvCommand(args[1], args[2:])

	case "tasks":
		page, err := parsePageArgs(args[1:])
		if err != nil {
			return nil, err
		}
		return model.ListTasks{Page: page}, nil

	case "task":
		if len(args) < 2 {
			return nil, &model.ValidationError{Field: "task subcommand"}
		}
		return parseTaskCommand(args[1], args[2:])

	case "info":
		return model.GetSystemInfo{}, nil
	}
	return nil, &model.ValidationError{Field: "command", Reason: fmt.Sprintf("unknown command %q", args[0])}
}

func parseEnvCommand(sub string, args []string) (model.Intent, error) {
	switch sub {
	case "add":
		if len(args) < 2 {
			return nil, &model.ValidationError{Field: "name and value", Reason: "usage: env add <name> <value> [remark...]"}
		}
		// Remarks may contain spaces; join the tail.
		return model.AddVariable{
			Name:   args[0],
			Value:  args[1],
			Remark: strings.Join(args[2:], " "),
		}, nil

	case "update":
		if len(args) < 2 {
			return nil, &model.ValidationError{Field: "reference and value", Reason: "usage: env update <name|id:N> <value...>"}
		}
		ref, err := model.ParseRef(args[0])
		if err != nil {
			return nil, err
		}
		// Values such as cookies may contain spaces; join the tail.
		return model.UpdateVariable{Ref: ref, Value: strings.Join(args[1:], " ")}, nil

	case "delete":
		ref, err := singleRef(args, "env delete")
		if err != nil {
			return nil, err
		}
		return model.DeleteVariable{Ref: ref}, nil

	case "enable", "disable":
		ref, err := singleRef(args, "env "+sub)
		if err != nil {
			return nil, err
		}
		return model.SetVariableEnabled{Ref: ref, Enabled: sub == "enable"}, nil
	}
	return nil, &model.ValidationError{Field: "env subcommand", Reason: fmt.Sprintf("unknown subcommand %q", sub)}
}

func parseTaskCommand(sub string, args []string) (model.Intent, error) {
	ref, err := singleRef(args, "task "+sub)
	if err != nil {
		return nil, err
	}
	switch sub {
	case "run":
		return model.RunTask{Ref: ref}, nil
	case "stop":
		return model.StopTask{Ref: ref}, nil
	case "log":
		return model.GetTaskLog{Ref: ref}, nil
	case "enable", "disable":
		return model.SetTaskEnabled{Ref: ref, Enabled: sub == "enable"}, nil
	case "pin":
		return model.PinTask{Ref: ref}, nil
	case "unpin":
		return model.UnpinTask{Ref: ref}, nil
	case "delete":
		return model.DeleteTask{Ref: ref}, nil
	}
	return nil, &model.ValidationError{Field: "task subcommand", Reason: fmt.Sprintf("unknown subcommand %q", sub)}
}

func singleRef(args []string, cmd string) (model.Ref, error) {
	if len(args) != 1 {
		return model.Ref{}, &model.ValidationError{Field: "reference", Reason: "usage: " + cmd + " <name|id:N>"}
	}
	return model.ParseRef(args[0])
}

// parsePageArgs accepts "[search] [page]" where a trailing bare integer is
// a page number and anything else is a search term.
func parsePageArgs(args []string) (model.PageRequest, error) {
	req := model.PageRequest{Index: 1}
	switch len(args) {
	case 0:
	case 1:
		if n, err := strconv.Atoi(args[0]); err == nil {
			req.Index = n
		} else {
			req.Search = args[0]
		}
	case 2:
		req.Search = args[0]
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return model.PageRequest{}, &model.ValidationError{Field: "page", Reason: fmt.Sprintf("%q is not a page number", args[1])}
		}
		req.Index = n
	default:
		return model.PageRequest{}, &model.ValidationError{Field: "arguments", Reason: "expected [search] [page]"}
	}
	if req.Index < 1 {
		return model.PageRequest{}, &model.ValidationError{Field: "page", Reason: "page numbers start at 1"}
	}
	return req, nil
}
