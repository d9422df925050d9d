package shell

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// dispatch executes one shell command. The returned boolean reports whether
// the session should end.
func dispatch(out io.Writer, command string, args []string) bool {
	switch command {

	case "set":
		if !expectArgs(out, "set [key] [value]", args, 2) {
			return false
		}
		if err := shellStore.Set(args[0], args[1]); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(out, "OK")

	case "get":
		if !expectArgs(out, "get [key]", args, 1) {
			return false
		}
		value, loaded, err := shellStore.Get(args[0])
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		if !loaded {
			fmt.Fprintln(out, "(not found)")
			return false
		}
		fmt.Fprintln(out, value)

	case "del":
		if !expectArgs(out, "del [key]", args, 1) {
			return false
		}
		if err := shellStore.Delete(args[0]); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(out, "OK")

	case "has":
		if !expectArgs(out, "has [key]", args, 1) {
			return false
		}
		loaded, err := shellStore.Has(args[0])
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(out, loaded)

	case "keys":
		var (
			keys []string
			err  error
		)
		if len(args) > 0 {
			keys, err = shellStore.KeysWithValue(args[0])
		} else {
			keys, err = shellStore.Keys()
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		for _, key := range keys {
			fmt.Fprintln(out, key)
		}
		fmt.Fprintf(out, "(%d keys)\n", len(keys))

	case "values":
		values, err := shellStore.Values()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		for _, value := range values {
			fmt.Fprintln(out, value)
		}
		fmt.Fprintf(out, "(%d values)\n", len(values))

	case "count":
		var (
			n   uint32
			err error
		)
		if len(args) > 0 {
			n, err = shellStore.CountWithValue(args[0])
		} else {
			n, err = shellStore.Count()
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(out, n)

	case "show":
		maxRecords := shellMaxRecords
		if len(args) > 0 {
			parsed, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				fmt.Fprintf(out, "error: max records must be a number: %v\n", err)
				return false
			}
			maxRecords = uint32(parsed)
		}
		if err := shellStore.Show(out, maxRecords); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

	case "begin":
		if err := shellStore.Begin(); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "OK (depth %d)\n", shellStore.Depth())

	case "commit":
		applied, err := shellStore.Commit()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		if !applied {
			fmt.Fprintln(out, "nothing to commit (no open transaction)")
			return false
		}
		fmt.Fprintf(out, "OK (depth %d)\n", shellStore.Depth())

	case "rollback":
		applied, err := shellStore.Rollback()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		if !applied {
			fmt.Fprintln(out, "nothing to roll back (no open transaction)")
			return false
		}
		fmt.Fprintf(out, "OK (depth %d)\n", shellStore.Depth())

	case "depth":
		fmt.Fprintln(out, shellStore.Depth())

	case "info":
		info, err := shellStore.GetMappingInfo()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		encoded, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(out, string(encoded))

	case "stats":
		if shellMetrics == nil {
			fmt.Fprintln(out, "metrics collection is disabled (run with --metrics)")
			return false
		}
		shellMetrics.WriteMetrics(out)

	case "help":
		printHelp(out)

	case "exit", "quit":
		return true

	default:
		fmt.Fprintf(out, "unknown command %q, type \"help\" for the list of commands\n", command)
	}

	return false
}

// expectArgs validates the argument count and prints usage on mismatch
func expectArgs(out io.Writer, usage string, args []string, n int) bool {
	if len(args) != n {
		fmt.Fprintf(out, "usage: %s\n", usage)
		return false
	}
	return true
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `store commands:
  set [key] [value]   set a key to a value
  get [key]           print the value of a key
  del [key]           delete a key
  has [key]           report whether a key is visible
  keys [value]        list visible keys, optionally filtered by value
  values              list visible values
  count [value]       count visible keys, optionally filtered by value
  show [max]          list visible records, capped at max

transaction commands:
  begin               open a (possibly nested) transaction
  commit              fold the innermost transaction one level down
  rollback            discard the innermost transaction
  depth               print the current nesting depth

session commands:
  info                print base mapping metadata
  stats               print operation counters (Prometheus text format)
  help                print this help
  exit                leave the shell
`)
}
