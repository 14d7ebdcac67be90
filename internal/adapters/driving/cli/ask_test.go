package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

func TestAskCmd_StreamsAnswer(t *testing.T) {
	stream := &mockStream{fragments: []string{"Hel", "lo, ", "world!"}}
	chat := &mockChatService{
		AskFunc: func(context.Context, string, string) (driving.AnswerStream, error) {
			return stream, nil
		},
	}
	useServices(t, &Services{Chat: chat})

	out, err := execute(t, "", "ask", "--file-id", "doc-9", "what", "is", "this?")

	require.NoError(t, err)
	assert.Equal(t, "Hello, world!\n", out)
	assert.Equal(t, []string{"doc-9:what is this?"}, chat.asked)
	assert.True(t, stream.closed)
}

func TestAskCmd_StreamFailureKeepsPartialText(t *testing.T) {
	useServices(t, &Services{Chat: &mockChatService{
		AskFunc: func(context.Context, string, string) (driving.AnswerStream, error) {
			return &mockStream{fragments: []string{"Hel"}, err: errors.New("reset")}, nil
		},
	}})

	out, err := execute(t, "", "ask", "--file-id", "doc-9", "hi")

	require.Error(t, err)
	assert.Contains(t, out, "Hel"+domain.AnswerFailureText)
}

func TestAskCmd_Rejected(t *testing.T) {
	useServices(t, &Services{Chat: &mockChatService{
		AskFunc: func(context.Context, string, string) (driving.AnswerStream, error) {
			return nil, domain.ErrStreamRejected
		},
	}})

	out, err := execute(t, "", "ask", "--file-id", "doc-9", "hi")

	assert.ErrorIs(t, err, domain.ErrStreamRejected)
	assert.Contains(t, out, "An error occurred while fetching the answer.")
}

func TestAskCmd_EmptyQuestion(t *testing.T) {
	chat := &mockChatService{}
	useServices(t, &Services{Chat: chat})

	_, err := execute(t, "", "ask", "--file-id", "doc-9", "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	assert.Empty(t, chat.asked)
}

func TestAskCmd_RequiresFileID(t *testing.T) {
	chat := &mockChatService{}
	useServices(t, &Services{Chat: chat})

	_, err := execute(t, "", "ask", "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file-id")
	assert.Empty(t, chat.asked)
}
