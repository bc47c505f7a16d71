package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	pbimages "github.com/Elementlead/PbimageS"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account and log in",
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an existing account",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the saved token",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoami,
}

func init() {
	registerCmd.Flags().String("username", "", "account username")
	registerCmd.Flags().String("email", "", "account email address")
	loginCmd.Flags().String("username", "", "account username")
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		defer fmt.Fprintln(os.Stderr)
		pw, err := term.ReadPassword(int(syscall.Stdin))
		return string(pw), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line), err
}

func requireFlag(cmd *cobra.Command, name string) (string, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	return value, nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	username, err := requireFlag(cmd, "username")
	if err != nil {
		return err
	}
	email, err := requireFlag(cmd, "email")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	if err := client.Session.Register(cmd.Context(), username, email, password); err != nil {
		return fmt.Errorf("%s", pbimages.UserMessage(err))
	}

	user := client.Session.CurrentUser()
	fmt.Printf("Registered and logged in as %s\n", user.Username)
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	username, err := requireFlag(cmd, "username")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	if err := client.Session.Login(cmd.Context(), username, password); err != nil {
		return fmt.Errorf("%s", pbimages.UserMessage(err))
	}

	fmt.Printf("Logged in as %s\n", username)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	client.Session.Logout()
	fmt.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	if client.Session.Status() != pbimages.StatusAuthenticated {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("Logged in as %s\n", client.Session.CurrentUser().Username)
	return nil
}
