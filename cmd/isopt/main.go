package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/pt-lab/isopt/internal/cli"
)

func main() {
	inv, err := cli.Parse(os.Args[1:])
	if err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "isopt: could not parse arguments: %s\n\nUse isopt --help for options\n", err)
			os.Exit(cli.ExitStructuralError)
		}
		os.Exit(cli.ExitSuccess)
	}

	code := cli.Run(cli.InvocationContext{Stdout: os.Stdout, Stderr: os.Stderr}, inv)
	os.Exit(code)
}
