package cli

import (
	"context"
	"fmt"
	"strconv"
)

const defaultChatPage = 20

// Message reads the text from the prompt and sends it to args[0].
func (a *App) Message(ctx context.Context, args []string) error {
	text, err := getMultiline(a.reader, "Enter message", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	m, err := a.client.SendMessage(ctx, args[0], text)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Sent %s\n", m.ID)
	return nil
}

// Chat prints a page of the conversation with args[0], oldest line first.
func (a *App) Chat(ctx context.Context, args []string) error {
	limit, offset := defaultChatPage, 0
	var err error
	if len(args) > 1 {
		if limit, err = strconv.Atoi(args[1]); err != nil || limit <= 0 {
			return a.report(fmt.Errorf("bad limit %q", args[1]))
		}
	}
	if len(args) > 2 {
		if offset, err = strconv.Atoi(args[2]); err != nil || offset < 0 {
			return a.report(fmt.Errorf("bad offset %q", args[2]))
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	ms, err := a.client.Conversation(ctx, args[0], limit, offset)
	if err != nil {
		return a.report(err)
	}
	a.printMessages(ms)
	return nil
}

func (a *App) Chats(ctx context.Context, args []string) error {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return a.report(fmt.Errorf("bad limit %q", args[0]))
		}
		limit = n
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	cs, err := a.client.Conversations(ctx, limit)
	if err != nil {
		return a.report(err)
	}
	a.printConversations(cs)
	return nil
}
