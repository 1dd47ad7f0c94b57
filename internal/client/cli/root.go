package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// getStatus renders the prompt status: the username when logged in, empty
// otherwise. Reading it from the session on every prompt means an
// invalidated token flips the prompt without extra bookkeeping.
func (a *App) getStatus() string {
	identity := a.session.Current()
	if identity == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", identity.Username)
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
