package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/graphicode-dev/classroom"
	"github.com/graphicode-dev/classroom/internal/infrastructure/configs"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/param"
	"github.com/graphicode-dev/classroom/option"
)

type rootFlags struct {
	configPath string
	baseURL    string
	token      string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "classroomctl",
		Short:         "Inspect and call the classroom API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "API base URL, overrides the config")
	cmd.PersistentFlags().StringVar(&flags.token, "token", "", "bearer token, overrides the config")

	cmd.AddCommand(
		newQueryCmd(),
		newFormCmd(),
		newGetCmd(flags),
		newLoginCmd(flags),
	)
	return cmd
}

// client builds an API client from the config file and the global flags.
func (f *rootFlags) client() (*classroom.Client, error) {
	cfg, err := configs.Load(configs.DetermineConfigPath(f.configPath))
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ClientOptions()
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Logger
	logCfg.Output = "stderr"
	logger, err := logging.NewLogger(&logCfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, option.WithLogger(logger))

	if f.baseURL != "" {
		opts = append(opts, option.WithBaseURL(f.baseURL))
	}
	if f.token != "" {
		opts = append(opts, option.WithToken(f.token))
	}
	return classroom.NewClient(opts...), nil
}

// readParams parses JSON from the argument, or from stdin when the argument
// is "-" or missing.
func readParams(cmd *cobra.Command, args []string) (param.Value, error) {
	var data []byte
	if len(args) == 0 || args[0] == "-" {
		in := cmd.InOrStdin()
		if in == os.Stdin {
			if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
				return nil, errors.New("expected JSON as an argument or on stdin")
			}
		}
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		data = b
	} else {
		data = []byte(args[0])
	}
	return param.ParseJSON(data)
}

// warningSink prints skipped values to stderr.
func warningSink(cmd *cobra.Command) param.Sink {
	return param.SinkFunc(func(w param.Warning) {
		cmd.PrintErrf("warning: %s skipped (%s): %s\n", w.Key, w.Kind, w.Detail)
	})
}
