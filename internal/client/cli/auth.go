package cli

import (
	"context"
	"os"

	"github.com/hkondo/secretbase/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details and creates the account. It does not
// log in; the user follows up with the login command.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, username, email, password); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Account created, you can log in now.")
	return nil
}

// Login prompts for credentials and authenticates. On success the issued
// token is persisted by the session layer, so the login survives restarts.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, username, password); err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	printlnFn("Logged in as", username)
	return nil
}

// GuestLogin signs in to the shared guest account without credentials.
func (a *App) GuestLogin(ctx context.Context) error {
	if err := a.client.GuestLogin(ctx); err != nil {
		printlnFn("Guest login failed:", err.Error())
		return err
	}
	printlnFn("Logged in as guest")
	return nil
}

// Logout drops the session locally. The server keeps no session state, so
// there is nothing to tell it.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	printlnFn("Logged out")
	return nil
}
