package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/photofeed/internal/api"
)

func (a *App) Me(ctx context.Context, _ []string) error {
	return a.User(ctx, []string{""})
}

func (a *App) User(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.client.GetUser(ctx, args[0])
	if err != nil {
		return a.report(err)
	}
	a.printUser(u)
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	users, err := a.client.SearchUsers(ctx, args[0], 0)
	if err != nil {
		return a.report(err)
	}
	a.printUsers(users)
	return nil
}

// EditProfile prompts for new profile values. Empty answers keep the
// current value.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	req := &api.UpdateProfileRequest{}

	fullName, err := getSimpleText(a.reader, "New full name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if fullName != "" {
		req.FullName = &fullName
	}

	username, err := getSimpleText(a.reader, "New username (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if username != "" {
		req.Username = &username
	}

	imagePath, err := getSimpleText(a.reader, "New profile image file (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if imagePath != "" {
		if req.ProfileImage, req.ContentType, err = readImage(imagePath); err != nil {
			return a.report(err)
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.client.UpdateProfile(ctx, req)
	if err != nil {
		return a.report(err)
	}
	a.printUser(u)
	return nil
}

func (a *App) Device(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.RegisterDevice(ctx, args[0]); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Device registered")
	return nil
}

func (a *App) Follow(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Follow(ctx, args[0]); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Following %s\n", args[0])
	return nil
}

func (a *App) Unfollow(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Unfollow(ctx, args[0]); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Unfollowed %s\n", args[0])
	return nil
}

func (a *App) Followers(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	ids, err := a.client.Followers(ctx, optionalArg(args))
	if err != nil {
		return a.report(err)
	}
	a.printIDs(ids)
	return nil
}

func (a *App) Following(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	ids, err := a.client.Following(ctx, optionalArg(args))
	if err != nil {
		return a.report(err)
	}
	a.printIDs(ids)
	return nil
}

// optionalArg returns the first argument or "" for the caller themself.
func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
