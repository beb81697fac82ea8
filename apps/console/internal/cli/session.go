package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (a *App) newLoginCommand() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and persist the session token",
		Long: `Signs in with email and password. The password is prompted for on a
terminal and read from the first line of stdin otherwise. With --token an
existing storefront token is adopted instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}

			var identity domain.Identity
			if token != "" {
				identity, err = c.Accounts.AdoptToken(ctx, token)
			} else {
				if len(args) == 0 {
					return errors.New("email is required unless --token is given")
				}
				var password string
				password, err = a.readPassword()
				if err != nil {
					return err
				}
				identity, err = c.Accounts.Login(ctx, domain.Credentials{Email: args[0], Password: password})
			}
			if err != nil {
				return err
			}
			return a.printIdentity(identity)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "adopt an existing session token")
	return cmd
}

func (a *App) newRegisterCommand() *cobra.Command {
	var reg domain.Registration
	cmd := &cobra.Command{
		Use:   "register email",
		Short: "Create a client account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			reg.Email = args[0]
			if reg.Password, err = a.readPassword(); err != nil {
				return err
			}
			identity, err := c.Accounts.Register(ctx, reg)
			if err != nil {
				return err
			}
			return a.printIdentity(identity)
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.FirstName, "first-name", "", "first name")
	f.StringVar(&reg.LastName, "last-name", "", "last name")
	f.StringVar(&reg.Phone, "phone", "", "phone number")
	f.StringVar(&reg.Address.Street, "street", "", "street")
	f.StringVar(&reg.Address.City, "city", "", "city")
	f.StringVar(&reg.Address.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&reg.Address.Country, "country", "", "country")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func (a *App) newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.deps(ctx)
			if err != nil {
				return err
			}
			if err := c.Accounts.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.errOut, "Signed out")
			return nil
		},
	}
}

func (a *App) newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.deps(cmd.Context())
			if err != nil {
				return err
			}
			identity, err := c.Accounts.Current()
			if err != nil {
				return err
			}
			return a.printIdentity(identity)
		},
	}
}

func (a *App) printIdentity(identity domain.Identity) error {
	return a.render(identity, func(w io.Writer) {
		fmt.Fprintf(w, "ID\t%s\n", identity.ID)
		fmt.Fprintf(w, "Role\t%s\n", identity.Role)
		fmt.Fprintf(w, "Name\t%s\n", orDash(identity.FullName()))
		fmt.Fprintf(w, "Email\t%s\n", orDash(identity.Email))
		if !identity.ExpiresAt.IsZero() {
			fmt.Fprintf(w, "Expires\t%s\n", identity.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
	})
}

// readPassword prompts without echo on a terminal and reads one line otherwise
func (a *App) readPassword() (string, error) {
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.errOut, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.errOut)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("no password given on stdin")
	}
	return password, nil
}
