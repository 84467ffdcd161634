package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (a *App) Inbox(ctx context.Context, args []string) error {
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

	ns, err := a.client.Inbox(ctx, limit)
	if err != nil {
		return a.report(err)
	}
	a.printNotifications(ns)
	return nil
}

// Comment reads the comment text from the prompt and posts it under args[0].
func (a *App) Comment(ctx context.Context, args []string) error {
	text, err := getMultiline(a.reader, "Enter comment", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if _, err := a.client.AddComment(ctx, args[0], text); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Comment added")
	return nil
}

func (a *App) Comments(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	cs, err := a.client.Comments(ctx, args[0])
	if err != nil {
		return a.report(err)
	}
	a.printComments(cs)
	return nil
}
