package configs

import (
	"github.com/cockroachdb/errors"

	"github.com/graphicode-dev/classroom/internal/param"
	"github.com/graphicode-dev/classroom/internal/requestconfig"
	"github.com/graphicode-dev/classroom/option"
)

// ClientOptions turns the client and serialization sections into request
// options. Unset values keep the client defaults.
func (c *Config) ClientOptions() ([]option.RequestOption, error) {
	var opts []option.RequestOption

	if c.Client.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.Client.BaseURL))
	}
	if c.Client.Token != "" {
		opts = append(opts, option.WithToken(c.Client.Token))
	}
	if c.Client.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(c.Client.Timeout))
	}
	opts = append(opts, option.WithMaxRetries(c.Client.MaxRetries))
	if c.Client.RetryWait > 0 {
		opts = append(opts, option.WithRetryWait(c.Client.RetryWait))
	}

	mode, err := requestconfig.ParseAuthMode(c.Client.AuthMode)
	if err != nil {
		return nil, errors.Wrap(err, "client.auth_mode")
	}
	opts = append(opts, option.WithAuthMode(mode))

	arrays, err := param.ParseArrayFormat(c.Serialization.ArrayFormat)
	if err != nil {
		return nil, errors.Wrap(err, "serialization.array_format")
	}
	booleans, err := param.ParseBooleanFormat(c.Serialization.BooleanFormat)
	if err != nil {
		return nil, errors.Wrap(err, "serialization.boolean_format")
	}
	dates, err := param.ParseDateFormat(c.Serialization.DateFormat)
	if err != nil {
		return nil, errors.Wrap(err, "serialization.date_format")
	}
	opts = append(opts,
		option.WithArrayFormat(arrays),
		option.WithFormBooleanFormat(booleans),
		option.WithFormDateFormat(dates),
	)
	return opts, nil
}
