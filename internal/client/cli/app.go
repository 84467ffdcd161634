package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/photofeed/internal/client/client"
	"github.com/dmitrijs2005/photofeed/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer

	// email of the logged-in user, shown in the prompt
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewPhotoFeedClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	printlnFn("Welcome to photofeed CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)

	if a.isLoggedIn() {
		_ = a.Logout(ctx)
	}
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// withTimeout bounds a single command by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// report prints a command failure and hands the error back to the REPL.
func (a *App) report(err error) error {
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
	return err
}
