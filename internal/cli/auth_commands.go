package cli

import (
	"context"
	"strings"

	"kanban-todo/internal/services"
)

// LoginCommand handles the login command
type LoginCommand struct {
	app          *App
	auth         services.AuthService
	errorHandler *ErrorHandler
}

// NewLoginCommand creates a new login command handler
func NewLoginCommand(app *App) *LoginCommand {
	return &LoginCommand{
		app:          app,
		auth:         app.services.AuthService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute logs in, prompting for whatever was not given on the command line
func (c *LoginCommand) Execute(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		c.app.printf("Username: ")
		line, err := c.app.readLine()
		if err != nil {
			return c.errorHandler.Handle("log in", err)
		}
		username = line
	}
	if password == "" {
		secret, err := c.app.readSecret("Password")
		if err != nil {
			return c.errorHandler.Handle("log in", err)
		}
		password = secret
	}

	session, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return c.errorHandler.Handle("log in", err)
	}
	c.app.printf("Logged in as %s\n", session.Username)
	return nil
}

// LogoutCommand handles the logout command
type LogoutCommand struct {
	app          *App
	auth         services.AuthService
	errorHandler *ErrorHandler
}

// NewLogoutCommand creates a new logout command handler
func NewLogoutCommand(app *App) *LogoutCommand {
	return &LogoutCommand{
		app:          app,
		auth:         app.services.AuthService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute discards the stored credential
func (c *LogoutCommand) Execute(ctx context.Context) error {
	if err := c.auth.Logout(ctx); err != nil {
		return c.errorHandler.Handle("log out", err)
	}
	c.app.println("Logged out")
	return nil
}

// WhoamiCommand handles the whoami command
type WhoamiCommand struct {
	app          *App
	auth         services.AuthService
	errorHandler *ErrorHandler
}

// NewWhoamiCommand creates a new whoami command handler
func NewWhoamiCommand(app *App) *WhoamiCommand {
	return &WhoamiCommand{
		app:          app,
		auth:         app.services.AuthService,
		errorHandler: NewErrorHandler(),
	}
}

// Execute prints the logged-in user
func (c *WhoamiCommand) Execute(ctx context.Context) error {
	user, err := c.auth.Current(ctx)
	if err != nil {
		return c.errorHandler.Handle("read session", err)
	}

	role := "member"
	if user.Admin {
		role = "admin"
	}
	c.app.printf("%s (%s)\n", user.Username, role)
	c.app.printf("Logged in: %s\n", user.SavedAt.Local().Format(c.app.config.Display.DateFormat+" 15:04"))
	if user.ExpiresAt != nil {
		status := "expires"
		if user.Expired(timeNow()) {
			status = "expired"
		}
		c.app.printf("Token %s: %s\n", status, user.ExpiresAt.Local().Format(c.app.config.Display.DateFormat+" 15:04"))
	}
	return nil
}
