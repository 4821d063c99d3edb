package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "grah 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runProgram(args[1:])
	case "check":
		return runCheck(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "watch":
		return runWatch(args[1:])
	case "keywords":
		return runKeywords(args[1:])
	default:
		return runProgram(args)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `usage:
  grah [run] [--keywords FILE] [--rev REV] [--trace] [--dump-env] <file>
  grah check [--keywords FILE] [--rev REV] <file>
  grah repl [--keywords FILE]
  grah watch [--keywords FILE] [--trace] <file>
  grah keywords [--keywords FILE] [--yaml] [dir]
  grah version

Keyword tables are read from --keywords, or from the nearest grah.yml above the
program (or the current directory), or fall back to the stock keywords.
`)
}
