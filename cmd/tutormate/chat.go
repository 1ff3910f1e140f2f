// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Send a single chat message to the agent",
	Long: `Chat processes one message through the agent and prints the reply.
Useful for trying intents without running the HTTP service:

  tutormate chat find papers about quantum error correction
  tutormate chat --user alice summarize paper_1a2b3c4d`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("user", "", "user identifier (default: a generated one-off id)")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a message, e.g. tutormate chat find papers about transformers")
	}
	message := strings.Join(args, " ")

	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		userID = "user_" + uuid.NewString()[:8]
	}

	cfg := buildConfig()
	a, st, err := buildAgent(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	resp := a.ProcessMessage(cmd.Context(), userID, message)
	fmt.Println(resp.Response)
	if resp.Error {
		return fmt.Errorf("the agent reported an error")
	}
	return nil
}
