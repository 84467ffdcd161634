package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const defaultFeedPage = 20

// Post uploads the image at args[0] with a caption read from the prompt.
func (a *App) Post(ctx context.Context, args []string) error {
	image, contentType, err := readImage(args[0])
	if err != nil {
		return a.report(err)
	}

	caption, err := getMultiline(a.reader, "Enter caption", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.CreatePost(ctx, image, contentType, caption)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Posted %s\n", p.ID)
	if len(p.Hashtags) > 0 {
		fmt.Fprintf(a.out, "Tags: #%s\n", strings.Join(p.Hashtags, " #"))
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.DeletePost(ctx, args[0]); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Deleted %s\n", args[0])
	return nil
}

func (a *App) Posts(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	posts, err := a.client.UserPosts(ctx, optionalArg(args))
	if err != nil {
		return a.report(err)
	}
	a.printPosts(posts)
	return nil
}

// Feed shows a page of the caller's feed: feed [limit] [offset].
func (a *App) Feed(ctx context.Context, args []string) error {
	limit, offset := defaultFeedPage, 0
	var err error
	if len(args) > 0 {
		if limit, err = strconv.Atoi(args[0]); err != nil || limit <= 0 {
			return a.report(fmt.Errorf("bad limit %q", args[0]))
		}
	}
	if len(args) > 1 {
		if offset, err = strconv.Atoi(args[1]); err != nil || offset < 0 {
			return a.report(fmt.Errorf("bad offset %q", args[1]))
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	posts, err := a.client.Feed(ctx, limit, offset)
	if err != nil {
		return a.report(err)
	}
	a.printPosts(posts)
	return nil
}

func (a *App) Like(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	n, err := a.client.Like(ctx, args[0])
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Likes: %d\n", n)
	return nil
}

func (a *App) Unlike(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	n, err := a.client.Unlike(ctx, args[0])
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Likes: %d\n", n)
	return nil
}

func (a *App) Likers(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	ids, err := a.client.Likers(ctx, args[0])
	if err != nil {
		return a.report(err)
	}
	a.printIDs(ids)
	return nil
}

func (a *App) Tag(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	posts, err := a.client.Hashtag(ctx, args[0])
	if err != nil {
		return a.report(err)
	}
	a.printPosts(posts)
	return nil
}
