package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/cli"
	"github.com/Alturino/storefront/user/pkg/request"
)

// NewCommands returns login, signup, logout and whoami.
func NewCommands(shop cli.ShopFunc) []*cobra.Command {
	loginParam := request.Login{}
	login := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := shop().Auth.Login(cmd.Context(), loginParam)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", session.User.Email)
			return nil
		},
	}
	login.Flags().StringVar(&loginParam.Email, "email", "", "account email")
	login.Flags().StringVar(&loginParam.Password, "password", "", "account password")
	login.MarkFlagRequired("email")
	login.MarkFlagRequired("password")

	signupParam := request.Signup{}
	signup := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if signupParam.ConfirmPassword == "" {
				signupParam.ConfirmPassword = signupParam.Password
			}
			result, err := shop().Auth.Signup(cmd.Context(), signupParam)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return err
		},
	}
	signup.Flags().StringVar(&signupParam.Username, "username", "", "display name")
	signup.Flags().StringVar(&signupParam.Email, "email", "", "account email")
	signup.Flags().StringVar(&signupParam.Password, "password", "", "at least 8 characters with a letter and a digit")
	signup.Flags().StringVar(&signupParam.ConfirmPassword, "confirm-password", "", "defaults to --password")
	signup.Flags().StringVar(&signupParam.PhoneNumber, "phone", "", "phone number in international format")
	signup.MarkFlagRequired("email")
	signup.MarkFlagRequired("password")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := shop().Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return err
		},
	}

	var remote bool
	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := shop()
			if remote {
				user, err := s.Auth.Profile(cmd.Context())
				if err != nil {
					return err
				}
				return cli.PrintJSON(cmd.OutOrStdout(), user)
			}
			session, err := s.Auth.Status(cmd.Context())
			if err != nil {
				return err
			}
			if !session.IsAuthenticated {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return err
			}
			if session.Expired(time.Now()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Stored token has expired, please log in again.")
			}
			return cli.PrintJSON(cmd.OutOrStdout(), session)
		},
	}
	whoami.Flags().BoolVar(&remote, "remote", false, "fetch the profile from the api")

	return []*cobra.Command{login, signup, logout, whoami}
}
