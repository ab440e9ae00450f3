package main

import (
	"strings"

	cli "github.com/urfave/cli/v2"
)

// interspersed moves a command's flags ahead of its positional arguments so
// `add-card 1 --name X` parses the same as `add-card --name X 1`. cli stops
// reading flags at the first positional argument.
func interspersed(a *cli.App, args []string) []string {
	if len(args) < 2 {
		return args
	}

	// Global flags are all string valued except help and version
	i := 1
	for i < len(args) && strings.HasPrefix(args[i], "-") && args[i] != "--" {
		switch {
		case strings.Contains(args[i], "="), isBoolName(args[i]):
			i++
		default:
			i += 2
		}
	}
	if i >= len(args) {
		return args
	}
	cmd := a.Command(args[i])
	if cmd == nil {
		return args
	}

	out := append([]string{}, args[:i+1]...)
	var flags, positional []string
	rest := args[i+1:]
	for j := 0; j < len(rest); j++ {
		tok := rest[j]
		if tok == "--" {
			positional = append(positional, rest[j+1:]...)
			break
		}
		f := lookupFlag(cmd, tok)
		if f == nil {
			positional = append(positional, tok)
			continue
		}
		flags = append(flags, tok)
		if takesValue(f) && !strings.Contains(tok, "=") && j+1 < len(rest) {
			j++
			flags = append(flags, rest[j])
		}
	}

	out = append(out, flags...)
	for _, p := range positional {
		if strings.HasPrefix(p, "-") {
			out = append(out, "--")
			break
		}
	}
	return append(out, positional...)
}

func isBoolName(tok string) bool {
	switch strings.TrimLeft(tok, "-") {
	case "h", "help", "v", "version":
		return true
	}
	return false
}

// lookupFlag returns the command flag tok names, or nil when tok is not one
func lookupFlag(cmd *cli.Command, tok string) cli.Flag {
	if !strings.HasPrefix(tok, "-") || tok == "-" {
		return nil
	}
	name, _, _ := strings.Cut(strings.TrimLeft(tok, "-"), "=")
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return f
			}
		}
	}
	if name == "h" || name == "help" {
		return cli.HelpFlag
	}
	return nil
}

func takesValue(f cli.Flag) bool {
	if v, ok := f.(interface{ TakesValue() bool }); ok {
		return v.TakesValue()
	}
	return true
}
