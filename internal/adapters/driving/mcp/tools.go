package mcp

import (
	"context"
	"errors"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// UploadInput is the input schema for the upload_document tool.
type UploadInput struct {
	Path string `json:"path" jsonschema:"local path of a .pdf or .txt document"`
}

// UploadOutput is the output schema for the upload_document tool.
type UploadOutput struct {
	FileID string `json:"file_id,omitempty"`
	Chunks int    `json:"chunks"`
	Status string `json:"status"`
}

// AskInput is the input schema for the ask_document tool.
type AskInput struct {
	FileID   string `json:"file_id" jsonschema:"document identifier returned by upload_document"`
	Question string `json:"question" jsonschema:"question about the document"`
}

// AskOutput is the output schema for the ask_document tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_document",
		Description: "Upload a local document to the RAG backend and return its file_id",
	}, s.handleUpload)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Ask a question about an uploaded document and return the full answer",
	}, s.handleAsk)
}

// handleUpload handles the upload_document tool invocation.
// Backend failures are reported as a tool error carrying the status text.
func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, UploadOutput, error) {
	session := domain.Session{}.SelectFile(domain.NewSelectedFile(input.Path, 0))
	session, err := session.BeginUpload()
	if err != nil {
		return nil, UploadOutput{}, err
	}

	res, err := s.ports.Chat.Upload(ctx, input.Path)
	if errors.Is(err, domain.ErrNoFileSelected) || errors.Is(err, domain.ErrUnsupportedDocument) ||
		errors.Is(err, domain.ErrInvalidInput) {
		return nil, UploadOutput{}, err
	}
	if err != nil {
		logger.Warn("mcp upload %s: %v", input.Path, err)
	}
	session = session.ApplyUpload(res, err)

	output := UploadOutput{
		FileID: session.DocumentID,
		Chunks: session.Chunks,
		Status: session.UploadStatus,
	}
	if session.DocumentID == "" {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: output.Status}},
		}, output, nil
	}
	return nil, output, nil
}

// handleAsk handles the ask_document tool invocation.
// The answer is the concatenated stream. A failed stream keeps the text
// received so far and appends the apology.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	session := domain.Session{DocumentID: input.FileID}
	session, answerID, err := session.Ask(input.Question, s.newID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	stream, err := s.ports.Chat.Ask(ctx, input.FileID, input.Question)
	if err != nil {
		logger.Warn("mcp ask: %v", err)
		session = session.FailAnswer(answerID)
	} else {
		session = consume(session, answerID, stream)
	}

	answer, _ := session.Message(answerID)
	return nil, AskOutput{Answer: answer.Text}, nil
}

// consume reads stream to the end into the answer message.
func consume(session domain.Session, answerID string, stream driving.AnswerStream) domain.Session {
	defer stream.Close() //nolint:errcheck

	for {
		fragment, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return session.FinishAnswer(answerID)
		}
		if err != nil {
			logger.Warn("mcp answer stream: %v", err)
			return session.FailAnswer(answerID)
		}
		session = session.AppendFragment(answerID, fragment)
	}
}
