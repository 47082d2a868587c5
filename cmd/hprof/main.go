package main

import (
	"flag"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/OhanaFS/hprof/cmd/hprof/cmd"
)

var subcommands = map[string]*flag.FlagSet{
	cmd.HeaderCmd.Name(): cmd.HeaderCmd,
	cmd.PackCmd.Name():   cmd.PackCmd,
}

func run() int {
	subcommandNames := []string{}
	for name := range subcommands {
		subcommandNames = append(subcommandNames, name)
	}
	sort.Strings(subcommandNames)

	if len(os.Args) < 2 {
		log.Fatalf("You must specify a subcommand. Valid subcommands are: %s\n", strings.Join(subcommandNames, ", "))
	}

	command := subcommands[os.Args[1]]
	if command == nil {
		log.Fatalf("unknown subcommand '%s'. Available commands are: %s\n", os.Args[1], strings.Join(subcommandNames, ", "))
	}

	command.Parse(os.Args[2:])

	switch command.Name() {
	case cmd.HeaderCmd.Name():
		return cmd.RunHeaderCmd(os.Stdout)
	case cmd.PackCmd.Name():
		return cmd.RunPackCmd()
	}

	return 0
}

func main() {
	os.Exit(run())
}
