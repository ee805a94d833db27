package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphicode-dev/classroom/internal/apiform"
	"github.com/graphicode-dev/classroom/internal/apiquery"
	"github.com/graphicode-dev/classroom/internal/param"
)

func newQueryCmd() *cobra.Command {
	var (
		arrayFormat string
		noEncode    bool
		keepEmpty   bool
		keepNull    bool
	)

	cmd := &cobra.Command{
		Use:   "query [json]",
		Short: "Print the query string for a JSON object",
		Example: `  classroomctl query '{"status":"active","tags":["go","web dev"]}'
  echo '{"filters":{"type":"pdf"}}' | classroomctl query --no-encode`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := param.ParseArrayFormat(arrayFormat)
			if err != nil {
				return err
			}
			v, err := readParams(cmd, args)
			if err != nil {
				return err
			}

			qs := apiquery.Marshal(v, apiquery.Settings{
				ArrayFormat: format,
				NoEncode:    noEncode,
				KeepEmpty:   keepEmpty,
				KeepNull:    keepNull,
				Sink:        warningSink(cmd),
			})
			fmt.Fprintln(cmd.OutOrStdout(), qs)
			return nil
		},
	}
	cmd.Flags().StringVar(&arrayFormat, "array-format", "brackets", "brackets, indices or repeat")
	cmd.Flags().BoolVar(&noEncode, "no-encode", false, "write keys and values without percent-encoding")
	cmd.Flags().BoolVar(&keepEmpty, "keep-empty", false, "send empty strings and arrays as key=")
	cmd.Flags().BoolVar(&keepNull, "keep-null", false, "send nulls as key=")
	return cmd
}

func newFormCmd() *cobra.Command {
	var (
		arrayFormat   string
		booleanFormat string
		skipEmpty     bool
	)

	cmd := &cobra.Command{
		Use:     "form [json]",
		Short:   "List the multipart fields for a JSON object",
		Example: `  classroomctl form '{"answers":[{"questionId":"q1","choice":"b"}],"final":true}' --array-format indices`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arrays, err := param.ParseArrayFormat(arrayFormat)
			if err != nil {
				return err
			}
			booleans, err := param.ParseBooleanFormat(booleanFormat)
			if err != nil {
				return err
			}
			v, err := readParams(cmd, args)
			if err != nil {
				return err
			}

			form := apiform.Encode(v, apiform.Settings{
				ArrayFormat:   arrays,
				BooleanFormat: booleans,
				SkipEmpty:     skipEmpty,
				Sink:          warningSink(cmd),
			})
			for _, p := range form.Fields() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", p.Key, p.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&arrayFormat, "array-format", "brackets", "brackets, indices or repeat")
	cmd.Flags().StringVar(&booleanFormat, "boolean-format", "numeric", "numeric (1/0) or string (true/false)")
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "drop empty string fields")
	return cmd
}
