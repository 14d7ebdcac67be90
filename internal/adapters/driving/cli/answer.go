package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// errServiceNotConfigured formats the error for a missing service.
func errServiceNotConfigured(name string) error {
	return fmt.Errorf("%s service not configured", name)
}

// streamAnswer writes fragments to w as they arrive and records them in
// the session. A failed stream writes the apology after the partial text.
func streamAnswer(
	w io.Writer, session domain.Session, answerID string, stream driving.AnswerStream,
) (domain.Session, error) {
	defer stream.Close() //nolint:errcheck

	for {
		fragment, err := stream.Next()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(w)
			return session.FinishAnswer(answerID), nil
		}
		if err != nil {
			fmt.Fprintln(w, domain.AnswerFailureText)
			return session.FailAnswer(answerID), err
		}
		fmt.Fprint(w, fragment)
		session = session.AppendFragment(answerID, fragment)
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
