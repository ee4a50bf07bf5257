package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/mcchat/internal/render"
	"github.com/diogo/mcchat/internal/transcript"
	"github.com/diogo/mcchat/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var printFormat string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the McIntire chatbot.

Each message is sent on its own; the transcript lives only as long as the
session. Press Esc or Ctrl+C, or type /quit, to end the session.
Use --print to write the transcript to stdout when the session ends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var format transcript.Format
			if printFormat != "" {
				f, err := transcript.ParseFormat(printFormat)
				if err != nil {
					return err
				}
				format = f
			}

			rt, err := loadRuntime(cmd.Context(), *flags, cmd.Flags().Changed, deps)
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.cfg.TUITheme != "" && !render.SetTUITheme(rt.cfg.TUITheme) {
				rt.logger.Warn("unknown TUI theme, using default", "theme", rt.cfg.TUITheme)
			}
			tui.UpdateTheme()

			session := rt.newSession()
			rt.logger.Info("chat session started", "endpoint", session.Endpoint())

			if err := deps.TUI.RunChat(cmd.Context(), session, rt.renderOptions(80)); err != nil {
				return fmt.Errorf("chat session failed: %w", err)
			}
			rt.logger.Info("chat session ended", "messages", session.Transcript().Len())

			if format == "" {
				return nil
			}
			data, err := transcript.Export(session.Messages(), format)
			if err != nil {
				return err
			}
			_, err = deps.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&printFormat, "print", "", "Print the transcript on exit (markdown, json or text)")
	return cmd
}
