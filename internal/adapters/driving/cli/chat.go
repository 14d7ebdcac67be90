package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/logger"
)

const chatPrompt = "> "

var chatCmd = &cobra.Command{
	Use:   "chat <file>",
	Short: "Upload a document and chat about it line by line",
	Long: `Uploads the document, then reads one question per line from stdin
and streams each answer. Works with pipes as well as terminals.

Type /quit or send EOF to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errServiceNotConfigured("chat")
	}

	path := args[0]
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	session, err := domain.Session{}.SelectFile(domain.NewSelectedFile(path, size)).BeginUpload()
	if err != nil {
		return err
	}
	cmd.Println(session.UploadStatus)

	res, err := chatService.Upload(cmd.Context(), path)
	if errors.Is(err, domain.ErrUnsupportedDocument) || errors.Is(err, domain.ErrInvalidInput) {
		return err
	}
	session = session.ApplyUpload(res, err)
	cmd.Println(session.UploadStatus)
	if session.DocumentID == "" {
		return errors.New(session.UploadStatus)
	}

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	interactive := isTerminal(in)
	scanner := bufio.NewScanner(in)

	for {
		if interactive {
			fmt.Fprint(out, chatPrompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" {
			break
		}

		next, answerID, err := session.Ask(line, uuid.NewString)
		if errors.Is(err, domain.ErrEmptyQuestion) {
			continue
		}
		if err != nil {
			return err
		}
		session = next

		stream, err := chatService.Ask(cmd.Context(), session.DocumentID, line)
		if err != nil {
			logger.Warn("ask: %v", err)
			fmt.Fprintln(out, strings.TrimLeft(domain.AnswerFailureText, "\n"))
			session = session.FailAnswer(answerID)
			continue
		}
		session, err = streamAnswer(out, session, answerID, stream)
		if err != nil {
			logger.Warn("answer stream: %v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading questions: %w", err)
	}
	logger.Debug("Chat ended after %d messages", len(session.Messages))
	return nil
}
