package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

var askFileID string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about an uploaded document",
	Long: `Streams the answer to stdout as it arrives. The file ID comes from
'ragchat upload'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askFileID, "file-id", "", "document identifier returned by upload")
	_ = askCmd.MarkFlagRequired("file-id")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errServiceNotConfigured("chat")
	}

	question := strings.Join(args, " ")
	session, answerID, err := domain.Session{DocumentID: askFileID}.Ask(question, uuid.NewString)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stream, err := chatService.Ask(cmd.Context(), session.DocumentID, question)
	if err != nil {
		fmt.Fprintln(out, strings.TrimLeft(domain.AnswerFailureText, "\n"))
		return fmt.Errorf("ask failed: %w", err)
	}

	if _, err := streamAnswer(out, session, answerID, stream); err != nil {
		return fmt.Errorf("answer stream failed: %w", err)
	}
	return nil
}
