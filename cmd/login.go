package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"cinebook-cli/config"
	"cinebook-cli/model"
	"cinebook-cli/service"
	"cinebook-cli/store"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		email, err := promptEmail()
		if err != nil {
			return err
		}
		password, err := promptPassword("Password")
		if err != nil {
			return err
		}

		sess, err := store.LoadSession()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		client := newClient(cfg, &sess)

		result, err := client.Login(context.Background(), email, password)
		if err != nil {
			if reason := service.Reason(err); reason != "" {
				return fmt.Errorf("login failed: %s", reason)
			}
			return err
		}

		sess.Login(result)
		if err := store.SaveSession(sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Printf("Signed in as %s\n", result.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.ClearSession(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println("Signed out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		email, err := promptEmail()
		if err != nil {
			return err
		}
		name, err := promptRequired("Name")
		if err != nil {
			return err
		}
		password, err := promptPassword("Password")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password")
		if err != nil {
			return err
		}
		if password != confirm {
			return errors.New("passwords do not match")
		}
		phone, err := promptOptional("Phone")
		if err != nil {
			return err
		}
		gender, err := promptGender()
		if err != nil {
			return err
		}

		sess, err := store.LoadSession()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		client := newClient(cfg, &sess)

		reg := model.Registration{
			Email:    email,
			Name:     name,
			Password: password,
			Phone:    phone,
			Gender:   gender,
		}
		if err := client.Register(context.Background(), reg); err != nil {
			if reason := service.Reason(err); reason != "" {
				return fmt.Errorf("registration failed: %s", reason)
			}
			return err
		}
		fmt.Println("Account created. Run `cinebook login` to sign in.")
		return nil
	},
}

func promptEmail() (string, error) {
	prompt := promptui.Prompt{
		Label: "Email",
		Validate: func(input string) error {
			if !strings.Contains(input, "@") {
				return errors.New("enter a valid email address")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptPassword(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			return nil
		},
	}
	return prompt.Run()
}

func promptRequired(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("required")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptOptional(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptGender() (string, error) {
	sel := promptui.Select{
		Label: "Gender",
		Items: []string{"female", "male", "other"},
		Size:  3,
	}
	_, value, err := sel.Run()
	return value, err
}
