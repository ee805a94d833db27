package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphicode-dev/classroom"
	"github.com/graphicode-dev/classroom/internal/apijson"
)

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [json]",
		Short: "Send an authenticated GET with JSON params as the query string",
		Example: `  classroomctl get student/exams '{"status":"upcoming","perPage":5}'
  classroomctl get resources '{"filters":{"type":"pdf","tags":["algebra"]}}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}

			var params any
			if len(args) == 2 {
				v, err := readParams(cmd, args[1:])
				if err != nil {
					return err
				}
				params = v
			}

			var body []byte
			if err := client.Get(cmd.Context(), args[0], params, &body); err != nil {
				return printAPIError(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}
}

func newLoginCmd(flags *rootFlags) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			res, err := client.Auth.Login(cmd.Context(), classroom.LoginParams{Email: email, Password: password})
			if err != nil {
				return printAPIError(cmd, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "signed in as %s (%s)\n", res.User.Name, res.User.Email)
			fmt.Fprintln(cmd.OutOrStdout(), res.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

type errorOutput struct {
	Message string                     `json:"message"`
	Status  int                        `json:"status,omitempty"`
	Code    string                     `json:"code,omitempty"`
	Errors  classroom.ValidationErrors `json:"errors,omitempty"`
}

// printAPIError writes the normalized error as JSON to stderr and returns it.
func printAPIError(cmd *cobra.Command, err error) error {
	apiErr, ok := classroom.AsError(err)
	if !ok {
		return err
	}
	out, mErr := apijson.Marshal(errorOutput{
		Message: apiErr.Message,
		Status:  apiErr.Status,
		Code:    apiErr.Code,
		Errors:  apiErr.ValidationErrors,
	})
	if mErr == nil {
		cmd.PrintErrln(string(out))
	}
	return err
}
