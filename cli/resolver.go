package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/wml/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The file is a single mapping from flag names to values. Keys may spell
// the flag name with hyphens (log-level) or underscores (log_level).
// Values are converted to the string forms kong parses from the command
// line: numbers are formatted, sequences are joined with commas, and
// mappings become key=value pairs joined with semicolons.
//
// Example config file:
//
//	log-level: debug
//	log_pretty: false
//	max-depth: 500
//	const:
//	  ROOT: '"/srv/wml"'
//	  LIMIT: 10 * 2
//
// Command-line flags override config file values. A file that is not a
// YAML mapping is logged and ignored.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var raw map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &raw); err != nil && err != io.EOF {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("error", err.Error()),
			)

			return config{}, nil
		}

		conf := make(config, len(raw))
		for key, val := range raw {
			conf[key] = flagValue(val)
		}

		return conf, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		if value, ok := r[name]; ok {
			return value, nil
		}
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagValue converts a decoded YAML value to a value kong can decode.
// Booleans and nulls are kept; everything else becomes a string.
func flagValue(v any) any {
	switch v := v.(type) {
	case nil, bool, string:
		return v

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(flagValue(item))
		}

		return strings.Join(items, ",")

	case map[string]any:
		pairs := make([]string, 0, len(v))
		for _, key := range slices.Sorted(maps.Keys(v)) {
			pairs = append(pairs, key+"="+fmt.Sprint(flagValue(v[key])))
		}

		return strings.Join(pairs, ";")

	default:
		return fmt.Sprint(v)
	}
}
