package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the store assistant",
	}

	var sessionID string
	send := &cobra.Command{
		Use:   "send <message>",
		Short: "Ask the assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, err := rt.app.assistant(sessionID)
			if err != nil {
				return err
			}

			reply, err := assistant.Send(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, reply.Response)
			fmt.Fprintf(w, "\n(continue with --session %s)\n", assistant.SessionID())
			return nil
		},
	}
	send.Flags().StringVar(&sessionID, "session", "", "continue an earlier conversation")

	history := &cobra.Command{
		Use:   "history <session-id>",
		Short: "Show a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, err := rt.app.assistant(args[0])
			if err != nil {
				return err
			}

			conv, err := assistant.History(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range conv.Messages {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", m.Role, m.Content)
			}
			return nil
		},
	}

	health := &cobra.Command{
		Use:   "health",
		Short: "Check whether the assistant is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			assistant, err := rt.app.assistant("")
			if err != nil {
				return err
			}

			h, err := assistant.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, ready=%t, %d/%d knowledge entries embedded\n",
				h.Status, h.Ready, h.EntriesWithEmbeddings, h.KnowledgeBaseEntries)
			return nil
		},
	}

	cmd.AddCommand(send, history, health)
	return cmd
}
