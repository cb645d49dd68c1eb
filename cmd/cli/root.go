package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "0.1.0"

// commandKeywords are the first-level words that select a subcommand.
// Anything else is treated as the legacy `yt-transfer <url>` form.
var commandKeywords = map[string]bool{
	"video":      true,
	"audio":      true,
	"info":       true,
	"help":       true,
	"completion": true,
	// cobra's hidden shell completion entry points
	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
}

func newRootCommand(cli *cliContext) *cobra.Command {
	root := &cobra.Command{
		Use:           "yt-transfer",
		Short:         "Download YouTube videos or extract their audio as MP3",
		Long:          "yt-transfer downloads YouTube videos or extracts their audio track as MP3, using yt-dlp and ffmpeg.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(cli.stdout)
	root.SetErr(cli.stderr)

	root.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a config file")
	root.PersistentFlags().BoolVar(&cli.verbose, "verbose", false, "Enable debug logging on stderr")

	root.AddCommand(
		newVideoCommand(cli),
		newAudioCommand(cli),
		newInfoCommand(cli),
	)

	return root
}

// rewriteLegacyArgs prepends `audio` when the first positional argument
// does not name a subcommand, so `yt-transfer <url> -o dir` keeps working.
// Flag values are skipped, so `-o audio` is an output directory. Empty
// invocations and bare --help/--version are left alone.
func rewriteLegacyArgs(root *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return args
	}

	if first, ok := firstPositional(args, valueFlags(root)); ok {
		if commandKeywords[first] {
			return args
		}
		return append([]string{"audio"}, args...)
	}

	for _, arg := range args {
		switch arg {
		case "-h", "--help", "-v", "--version":
		default:
			return append([]string{"audio"}, args...)
		}
	}
	return args
}

// firstPositional returns the first argument that is neither a flag nor the
// value of a flag
func firstPositional(args []string, valueFlags map[string]bool) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			if i+1 < len(args) {
				return args[i+1], true
			}
			return "", false
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			if !strings.Contains(arg, "=") && valueFlags[arg] {
				i++
			}
		default:
			return arg, true
		}
	}
	return "", false
}

// valueFlags collects the spellings of every flag in the tree that consumes
// the following argument as its value
func valueFlags(root *cobra.Command) map[string]bool {
	flags := map[string]bool{}
	collect := func(f *pflag.Flag) {
		if f.NoOptDefVal != "" {
			return
		}
		flags["--"+f.Name] = true
		if f.Shorthand != "" {
			flags["-"+f.Shorthand] = true
		}
	}

	root.PersistentFlags().VisitAll(collect)
	for _, cmd := range root.Commands() {
		cmd.Flags().VisitAll(collect)
	}
	return flags
}
