package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/photofeed/internal/api"
	"github.com/dmitrijs2005/photofeed/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register prompts for the account fields and creates the account. An
// optional profile image is read from the path the user enters.
func (a *App) Register(ctx context.Context) error {
	req := &api.RegisterRequest{}
	var err error

	if req.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if req.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if req.FullName, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	imagePath, err := getSimpleText(a.reader, "Profile image file (empty to skip)", a.out)
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

	user, err := a.client.Register(ctx, req)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Registered @%s (%s)\n", user.Username, user.ID)
	return nil
}

// Login prompts for credentials and authenticates against the server. The
// client keeps the token pair; the REPL only remembers the email for the
// prompt.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Login(ctx, email, string(password)); err != nil {
		return a.report(fmt.Errorf("login unsuccessful: %w", err))
	}

	a.userName = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// ForgotPassword asks the server to mail a reset token for an email.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.RequestPasswordReset(ctx, email); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "If the account exists, a reset token is on its way")
	return nil
}

// ResetPassword sets a new password with the mailed token.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.ResetPassword(ctx, token, string(password)); err != nil {
		return a.report(fmt.Errorf("reset unsuccessful: %w", err))
	}
	fmt.Fprintln(a.out, "Password changed, please log in")
	return nil
}

// Logout revokes the refresh token and forgets the session.
func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Logout(ctx); err != nil {
		return a.report(err)
	}
	a.userName = ""
	return nil
}

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile
