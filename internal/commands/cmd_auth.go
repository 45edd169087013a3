package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/skillshop/internal/core/session"
	"github.com/hay-kot/skillshop/internal/printer"
	"github.com/hay-kot/skillshop/internal/styles"
)

type AuthCmd struct {
	flags *Flags

	identifier string
	password   string
	firstName  string
	lastName   string
	email      string
}

// NewAuthCmd creates the login, register, logout and whoami commands.
func NewAuthCmd(flags *Flags) *AuthCmd {
	return &AuthCmd{flags: flags}
}

// Register adds the auth commands to the application.
func (cmd *AuthCmd) Register(app *cli.Command) *cli.Command {
	passwordFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "password",
			Usage:       "account password (prompted when omitted on a terminal)",
			Sources:     cli.EnvVars("SKILLSHOP_PASSWORD"),
			Destination: &cmd.password,
		}
	}

	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "login",
			Usage:     "Log in to the marketplace",
			UsageText: "skillshop login [--email <email>] [--password <password>]",
			Description: `Authenticates against the API and stores the session token locally.

When stdin is a terminal, missing fields are collected with an interactive form.`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "email",
					Aliases:     []string{"e", "identifier"},
					Usage:       "account email or username",
					Destination: &cmd.identifier,
				},
				passwordFlag(),
			},
			Action: cmd.login,
		},
		&cli.Command{
			Name:      "register",
			Usage:     "Create a student account",
			UsageText: "skillshop register --first-name <name> --last-name <name> --email <email> [--password <password>]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "first-name", Usage: "first name", Destination: &cmd.firstName},
				&cli.StringFlag{Name: "last-name", Usage: "last name", Destination: &cmd.lastName},
				&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "email address", Destination: &cmd.email},
				passwordFlag(),
			},
			Action: cmd.register,
		},
		&cli.Command{
			Name:   "logout",
			Usage:  "Forget the stored session",
			Action: cmd.logout,
		},
		&cli.Command{
			Name:   "whoami",
			Usage:  "Show the logged in user",
			Action: cmd.whoami,
		},
	)

	return app
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (cmd *AuthCmd) login(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	creds := session.Credentials{Identifier: cmd.identifier, Password: cmd.password}
	if (creds.Identifier == "" || creds.Password == "") && isInteractive() {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email or username").Value(&creds.Identifier),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&creds.Password),
		)).WithTheme(styles.FormTheme())

		if err := form.RunWithContext(ctx); err != nil {
			return fmt.Errorf("login form: %w", err)
		}
	}

	user, err := cmd.flags.Service.Login(ctx, creds)
	if err != nil {
		return err
	}

	p.Success("Logged in", fmt.Sprintf("%s (%s)", user.DisplayName(), user.Role()))
	return nil
}

func (cmd *AuthCmd) register(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	reg := session.Registration{
		FirstName: cmd.firstName,
		LastName:  cmd.lastName,
		Email:     cmd.email,
		Password:  cmd.password,
	}

	if isInteractive() && (reg.FirstName == "" || reg.Email == "" || reg.Password == "") {
		var confirm string
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("First name").Value(&reg.FirstName),
			huh.NewInput().Title("Last name").Value(&reg.LastName),
			huh.NewInput().Title("Email").Value(&reg.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&reg.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm).
				Validate(func(s string) error {
					if s != reg.Password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		)).WithTheme(styles.FormTheme())

		if err := form.RunWithContext(ctx); err != nil {
			return fmt.Errorf("register form: %w", err)
		}
	}

	user, err := cmd.flags.Service.Register(ctx, reg)
	if err != nil {
		return err
	}

	p.Success("Account created", user.DisplayName())
	return nil
}

func (cmd *AuthCmd) logout(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	if !cmd.flags.Service.Session().IsAuthenticated() {
		p.Infof("Not logged in")
		return nil
	}

	cmd.flags.Service.Logout(ctx)
	p.Successf("Logged out")
	return nil
}

func (cmd *AuthCmd) whoami(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	user, ok := cmd.flags.Service.Session().User()
	if !ok || !cmd.flags.Service.Session().IsAuthenticated() {
		p.Infof("Not logged in")
		return nil
	}

	p.KeyValue("Name", user.DisplayName())
	if user.Email != "" {
		p.KeyValue("Email", user.Email)
	}
	p.KeyValue("Role", user.Role())
	p.KeyValue("ID", user.ID.String())
	return nil
}
