// Package commands provides CLI commands for mcchat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd creates the mcchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	var (
		flags     globalFlags
		queryOpts queryOptions
		fileFlag  string
		rawFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "mcchat [message]",
		Short: "Terminal client for the McIntire chatbot",
		Long: `mcchat sends messages to the McIntire chatbot API and shows its replies.

Examples:
  mcchat chat                           Start interactive chat
  mcchat "What programs are offered?"   Send a single message
  mcchat -f question.md                 Read the message from a file
  cat question.md | mcchat              Read the message from stdin
  mcchat "Hello" -o reply.md            Save the reply to a file
  mcchat config set companion_mode true Turn on companion mode`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "mcchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			text, err := readMessage(args, fileFlag, deps.Stdin)
			if err != nil {
				return err
			}
			if text == "" {
				return cmd.Help()
			}

			rt, err := loadRuntime(cmd.Context(), flags, cmd.Flags().Changed, deps)
			if err != nil {
				return err
			}
			defer rt.close()

			queryOpts.raw = rawFlag || !deps.IsTTY()
			return runQuery(cmd.Context(), rt, deps, text, queryOpts)
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.endpoint, "endpoint", "", "Chat API endpoint URL (overrides config)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.companion, "companion", false, "Answer through the companion agents")
	pf.BoolVar(&flags.restrict, "restrict-scope", false, "Keep answers to the chatbot's subject area")
	pf.DurationVar(&flags.timeout, "timeout", 0, "Request timeout, e.g. 30s (0 disables)")

	cmd.Flags().StringVarP(&queryOpts.outputFile, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read message from file")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print only the reply text")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(deps, &flags))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// readMessage picks the message from -f, the argument or piped stdin, in that order
func readMessage(args []string, file string, stdin io.Reader) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	if len(args) > 0 {
		return args[0], nil
	}

	if hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	return "", nil
}

// hasPipedInput reports whether stdin carries data rather than a terminal
func hasPipedInput(stdin io.Reader) bool {
	if stdin == nil {
		return false
	}
	f, ok := stdin.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// rootCmd is the production command tree
var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// timeoutSeconds converts a flag duration to the config's whole seconds,
// rounding up so a sub-second timeout never becomes zero. Negative
// durations map to -1 and fail validation.
func timeoutSeconds(d time.Duration) int {
	switch {
	case d < 0:
		return -1
	case d == 0:
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
