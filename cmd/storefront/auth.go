package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign up and sign out",
	}

	var email, password string
	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in with e-mail and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := rt.app.sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", user.DisplayName())
			return nil
		},
	}
	login.Flags().StringVar(&email, "email", "", "e-mail address")
	login.Flags().StringVar(&password, "password", "", "password")

	var reg domain.Registration
	register := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := rt.app.sessions.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Welcome, %s!\n", user.DisplayName())
			return nil
		},
	}
	rf := register.Flags()
	rf.StringVar(&reg.Email, "email", "", "e-mail address")
	rf.StringVar(&reg.Password, "password", "", "password, at least 8 characters")
	rf.StringVar(&reg.PasswordConfirm, "password-confirm", "", "password again")
	rf.StringVar(&reg.FirstName, "first-name", "", "first name")
	rf.StringVar(&reg.LastName, "last-name", "", "last name")
	rf.StringVar(&reg.Phone, "phone", "", "phone number")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.app.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}

	var remote bool
	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			user := rt.app.sessions.CurrentUser(ctx)
			if remote {
				me, err := rt.app.client.Me(ctx)
				if err != nil {
					return err
				}
				user = &me
			}
			if user == nil || !rt.app.sessions.IsAuthenticated(ctx) {
				fmt.Fprintln(w, "Not signed in.")
				return nil
			}

			fmt.Fprintf(w, "%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
			if user.Phone != "" {
				fmt.Fprintf(w, "Phone: %s\n", user.Phone)
			}
			if !user.DateJoined.IsZero() {
				fmt.Fprintf(w, "Member since %s\n", user.DateJoined.Format("January 2006"))
			}
			return nil
		},
	}
	whoami.Flags().BoolVar(&remote, "remote", false, "ask the backend instead of the local cache")

	cmd.AddCommand(login, register, logout, whoami)
	return cmd
}

func newProfileCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	var (
		in        domain.ProfileUpdate
		imagePath string
	)
	update := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields and picture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if imagePath != "" {
				f, err := os.Open(imagePath)
				if err != nil {
					return fmt.Errorf("os.Open: %w", err)
				}
				defer f.Close()

				st, err := f.Stat()
				if err != nil {
					return fmt.Errorf("f.Stat: %w", err)
				}
				in.Image = &domain.ImageUpload{
					Filename: filepath.Base(imagePath),
					Size:     st.Size(),
					Body:     f,
				}
			}

			user, err := rt.app.sessions.UpdateProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s.\n", user.DisplayName())
			return nil
		},
	}
	f := update.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Email, "email", "", "e-mail address")
	f.StringVar(&in.Phone, "phone", "", "phone number")
	f.StringVar(&in.Address, "address", "", "street address")
	f.StringVar(&in.City, "city", "", "city")
	f.StringVar(&in.State, "state", "", "state or region")
	f.StringVar(&in.ZipCode, "zip-code", "", "zip code")
	f.StringVar(&in.Country, "country", "", "country")
	f.StringVar(&imagePath, "image", "", "path to a profile picture (jpg, png, gif, webp, up to 5MB)")

	cmd.AddCommand(update)
	return cmd
}
