package config

import (
	"errors"
	"slices"
	"strconv"
	"strings"
)

const Usage = "Usage: pixelmancer <inputDir> [outputDir] [--optimize] [--sizes 32,64,128]"

var (
	ErrHelp    = errors.New("help requested")
	ErrVersion = errors.New("version requested")
)

// UsageError is returned for malformed command lines. The caller reports the
// message on stderr and exits with status 1.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// ParseArgs turns the raw argument list (without the program name) into a Config.
//
// Flags may appear anywhere. The first two remaining tokens are the input and
// output directories. A --config file supplies defaults that the command line
// overrides.
func ParseArgs(args []string) (*Config, error) {
	var (
		positionals []string
		sizes       []int
		sizesSet    bool
		configFile  string
		upload      bool
		notify      bool
		watch       bool
	)

	optimize := slices.Contains(args, "--optimize") || slices.Contains(args, "-o")

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help" || arg == "-h":
			return nil, ErrHelp
		case arg == "--version":
			return nil, ErrVersion
		case strings.HasPrefix(arg, "--sizes"):
			if i+1 >= len(args) || args[i+1] == "" {
				return nil, &UsageError{Msg: "Please provide sizes after --sizes flag."}
			}
			i++
			// only the first --sizes counts
			if !sizesSet {
				sizes = ParseSizes(args[i])
				sizesSet = true
			}
		case arg == "--config":
			if i+1 >= len(args) || args[i+1] == "" {
				return nil, &UsageError{Msg: "Please provide a file after --config flag."}
			}
			i++
			configFile = args[i]
		case arg == "--upload":
			upload = true
		case arg == "--notify":
			notify = true
		case arg == "--watch":
			watch = true
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			// --optimize, -o and unknown flags
		default:
			positionals = append(positionals, arg)
		}
	}

	if len(positionals) == 0 {
		return nil, &UsageError{Msg: Usage}
	}

	cfg := &Config{
		InputDir:   positionals[0],
		OutputDir:  DefaultOutputDir,
		Sizes:      slices.Clone(DefaultSizes),
		ConfigFile: configFile,
		Exchange:   DefaultExchange,
		RoutingKey: DefaultRoutingKey,
	}

	if configFile != "" {
		file, err := LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		file.apply(cfg)
	}

	if len(positionals) > 1 {
		cfg.OutputDir = positionals[1]
	}
	if sizesSet {
		cfg.Sizes = sizes
	}
	cfg.Optimize = cfg.Optimize || optimize
	cfg.Upload = cfg.Upload || upload
	cfg.Notify = cfg.Notify || notify
	cfg.Watch = watch

	return cfg, nil
}

// ParseSizes reads a comma separated size list. Entries that are not positive
// integers are dropped. The result is never nil.
func ParseSizes(list string) []int {
	sizes := []int{}
	for _, token := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || n <= 0 {
			continue
		}
		sizes = append(sizes, n)
	}
	return sizes
}
