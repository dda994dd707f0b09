// Command scout is a terminal client for Scout APM.
package main

import (
	"io"
	"os"

	"github.com/awnumar/memguard"

	"github.com/rshade/scout/internal/cli"
	"github.com/rshade/scout/internal/output"
	"github.com/rshade/scout/pkg/version"
)

func main() {
	memguard.CatchInterrupt()

	err := run(os.Args, os.LookupEnv, os.Stdout, os.Stderr)
	memguard.Purge()
	if err != nil {
		os.Exit(1)
	}
}

// run executes the command line and reports a failure in the selected output format.
func run(args []string, lookupEnv func(string) (string, bool), stdout, stderr io.Writer) error {
	root := cli.NewRootCmdWithArgs(version.GetVersion(), args, lookupEnv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err != nil {
		output.WriteError(stdout, stderr, cli.OutputFormat(root), err)
	}
	return err
}
