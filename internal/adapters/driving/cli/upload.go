package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/logger"
)

var uploadJSON bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document to the backend",
	Long: `Uploads a .pdf or .txt document and prints the file ID that
questions must reference.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

// uploadOutput is the JSON shape printed with --json.
type uploadOutput struct {
	FileID string `json:"file_id,omitempty"`
	Chunks int    `json:"chunks"`
	Status string `json:"status"`
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]

	if chatService == nil {
		return errServiceNotConfigured("chat")
	}

	session, err := domain.Session{}.SelectFile(domain.NewSelectedFile(path, 0)).BeginUpload()
	if err != nil {
		return err
	}

	res, err := chatService.Upload(cmd.Context(), path)
	if errors.Is(err, domain.ErrNoFileSelected) || errors.Is(err, domain.ErrUnsupportedDocument) ||
		errors.Is(err, domain.ErrInvalidInput) {
		return err
	}
	if err != nil {
		logger.Warn("upload %s: %v", path, err)
	}
	session = session.ApplyUpload(res, err)

	if uploadJSON {
		if err := outputUploadJSON(cmd, session); err != nil {
			return err
		}
	} else if session.DocumentID != "" {
		cmd.Println(session.UploadStatus)
		cmd.Printf("File ID: %s\n", session.DocumentID)
	}

	if session.DocumentID == "" {
		return errors.New(session.UploadStatus)
	}
	return nil
}

func outputUploadJSON(cmd *cobra.Command, session domain.Session) error {
	data, err := json.MarshalIndent(uploadOutput{
		FileID: session.DocumentID,
		Chunks: session.Chunks,
		Status: session.UploadStatus,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
