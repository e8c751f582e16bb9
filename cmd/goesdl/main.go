package main

import (
	"fmt"
	"io"
	"os"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitInvalidArgs     = 2
	ExitStorageError    = 3
	ExitPrecondition    = 4
	ExitConversionError = 5
)

// stdout receives command output; status lines go to stderr.
var stdout io.Writer = os.Stdout

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
	case "list":
		return runList(cmdArgs)
	case "download":
		return runDownload(cmdArgs)
	case "convert":
		return runConvert(cmdArgs)
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
	fmt.Fprintln(os.Stderr, `Usage: goesdl <command> [options]

Commands:
  list      List GOES product files in a time window
  download  Download product files, optionally converting them to GeoTIFF
  convert   Convert already downloaded files to GeoTIFF

Run 'goesdl <command> -h' for command-specific help.`)
}
