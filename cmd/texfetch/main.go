package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitFetchFailed  = 1
	ExitInvalidArgs  = 2
	ExitConfigError  = 3
	ExitStorageError = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "fetch":
		return runFetch(cmdArgs)
	case "check":
		return runCheck(cmdArgs)
	case "mirror":
		return runMirror(cmdArgs)
	case "show":
		return runShow(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: texfetch <command> [options]

Commands:
  fetch   Download all manifest files in parallel and verify digests
  check   Re-hash already-downloaded files against the manifest
  mirror  Copy fetched files into an object storage bucket
  show    Print the effective manifest

Run 'texfetch <command> -h' for command-specific help.`)
}
