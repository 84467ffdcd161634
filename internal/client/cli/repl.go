package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb. run receives the words after the verb.
type command struct {
	name  string
	usage string
	// nargs is the number of required arguments.
	nargs int
	// auth commands are offered and accepted only after login.
	auth bool
	run  func(ctx context.Context, args []string) error
}

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
}

func (a *App) commands() []command {
	return []command{
		{name: "register", usage: "register", run: func(ctx context.Context, _ []string) error { return a.Register(ctx) }},
		{name: "login", usage: "login", run: func(ctx context.Context, _ []string) error { return a.Login(ctx) }},
		{name: "forgot", usage: "forgot", run: func(ctx context.Context, _ []string) error { return a.ForgotPassword(ctx) }},
		{name: "reset", usage: "reset", run: func(ctx context.Context, _ []string) error { return a.ResetPassword(ctx) }},
		{name: "logout", usage: "logout", auth: true, run: func(ctx context.Context, _ []string) error { return a.Logout(ctx) }},

		{name: "me", usage: "me", auth: true, run: a.Me},
		{name: "user", usage: "user <user_id>", nargs: 1, auth: true, run: a.User},
		{name: "search", usage: "search <username prefix>", nargs: 1, auth: true, run: a.Search},
		{name: "profile", usage: "profile", auth: true, run: a.EditProfile},
		{name: "device", usage: "device <push token>", nargs: 1, auth: true, run: a.Device},

		{name: "follow", usage: "follow <user_id>", nargs: 1, auth: true, run: a.Follow},
		{name: "unfollow", usage: "unfollow <user_id>", nargs: 1, auth: true, run: a.Unfollow},
		{name: "followers", usage: "followers [user_id]", auth: true, run: a.Followers},
		{name: "following", usage: "following [user_id]", auth: true, run: a.Following},

		{name: "post", usage: "post <image file>", nargs: 1, auth: true, run: a.Post},
		{name: "delete", usage: "delete <post_id>", nargs: 1, auth: true, run: a.Delete},
		{name: "posts", usage: "posts [user_id]", auth: true, run: a.Posts},
		{name: "feed", usage: "feed [limit] [offset]", auth: true, run: a.Feed},
		{name: "like", usage: "like <post_id>", nargs: 1, auth: true, run: a.Like},
		{name: "unlike", usage: "unlike <post_id>", nargs: 1, auth: true, run: a.Unlike},
		{name: "likers", usage: "likers <post_id>", nargs: 1, auth: true, run: a.Likers},
		{name: "tag", usage: "tag <hashtag>", nargs: 1, auth: true, run: a.Tag},

		{name: "inbox", usage: "inbox [limit]", auth: true, run: a.Inbox},
		{name: "comment", usage: "comment <post_id>", nargs: 1, auth: true, run: a.Comment},
		{name: "comments", usage: "comments <post_id>", nargs: 1, auth: true, run: a.Comments},

		{name: "msg", usage: "msg <user_id>", nargs: 1, auth: true, run: a.Message},
		{name: "chat", usage: "chat <user_id> [limit] [offset]", nargs: 1, auth: true, run: a.Chat},
		{name: "chats", usage: "chats [limit]", auth: true, run: a.Chats},
	}
}

// runREPL starts a simple read–eval–print loop for the photofeed CLI.
//
// It reads a line from reader, parses the first word as the command and
// dispatches it with the remaining words as arguments. The loop exits on
// EOF or when the user types "exit" or "quit". Errors returned by command
// handlers are ignored here; handlers report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	cmds := make(map[string]command)
	for _, c := range a.commands() {
		cmds[c.name] = c
	}

	for {
		printlnFn(fmt.Sprintf("pf %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn("Available commands: " + strings.Join(available(a), ", ") + ", exit")
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := cmds[name]
		switch {
		case !ok:
			printlnFn("Unknown command:", name)
		case c.auth && !a.isLoggedIn():
			printlnFn("Please log in first")
		case len(args) < c.nargs:
			printlnFn("Usage:", c.usage)
		default:
			_ = c.run(ctx, args)
		}

		if err != nil {
			return
		}
	}
}

// available lists the commands usable in the current login state.
func available(a execIface) []string {
	loggedIn := a.isLoggedIn()
	var out []string
	for _, c := range a.commands() {
		if c.auth == loggedIn {
			out = append(out, c.name)
		}
	}
	return out
}
