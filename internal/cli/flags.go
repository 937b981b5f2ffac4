package cli

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Flag names and descriptions
const (
	FlagDirectory = "directory"
	FlagConfig    = "config"
	FlagForce     = "force"
	FlagPreview   = "preview"
	FlagNoColor   = "no-color"
	FlagQuiet     = "quiet"
	FlagDebug     = "debug"
	FlagVersion   = "version"
	FlagHelp      = "help"

	DescDirectory = "Templates directory (defaults to ./qgen-templates)"
	DescConfig    = "Path to the config file (defaults to ./qgen.json)"
	DescForce     = "Overwrite the destination files without asking"
	DescPreview   = "Preview the results without making any changes on files"
	DescNoColor   = "Disable colored output"
	DescQuiet     = "Suppress non-error output"
	DescDebug     = "Enable debug logging"
	DescVersion   = "Show version information"
	DescHelp      = "Show help"
)

// knownLong lists the long flags owned by qgen, mapped to whether they take a value.
var knownLong = map[string]bool{
	FlagDirectory: true,
	FlagConfig:    true,
	FlagForce:     false,
	FlagPreview:   false,
	FlagNoColor:   false,
	FlagQuiet:     false,
	FlagDebug:     false,
	FlagVersion:   false,
	FlagHelp:      false,
}

// valueShorthands are the shorthand flags that take a value.
const valueShorthands = "dc"

// parsedArgs is the command line split into qgen's own flags, positional
// arguments and user data flags.
type parsedArgs struct {
	known       []string
	positionals []string
	data        map[string]interface{}
}

// splitArgs separates the raw arguments.
//
// qgen's own flags are kept for pflag. Any other long flag becomes a data
// key, with the name converted to lower camel case (--page-title becomes
// pageTitle). Supported forms: --key=value, --key value, --key (true) and
// --no-key (false). Values are kept as strings. Everything after "--" is
// positional.
func splitArgs(args []string) parsedArgs {
	parsed := parsedArgs{
		known:       []string{},
		positionals: []string{},
		data:        map[string]interface{}{},
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			parsed.positionals = append(parsed.positionals, args[i+1:]...)
			return parsed

		case strings.HasPrefix(arg, "--"):
			name, value, hasValue := strings.Cut(arg[2:], "=")
			if takesValue, ok := knownLong[name]; ok {
				parsed.known = append(parsed.known, arg)
				if takesValue && !hasValue && i+1 < len(args) {
					i++
					parsed.known = append(parsed.known, args[i])
				}
				continue
			}
			if name == "" {
				parsed.positionals = append(parsed.positionals, arg)
				continue
			}

			switch {
			case hasValue:
				parsed.data[dataKey(name)] = value
			case strings.HasPrefix(name, "no-") && len(name) > 3:
				parsed.data[dataKey(name[3:])] = false
			case i+1 < len(args) && !strings.HasPrefix(args[i+1], "-"):
				i++
				parsed.data[dataKey(name)] = args[i]
			default:
				parsed.data[dataKey(name)] = true
			}

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			parsed.known = append(parsed.known, arg)
			if !strings.Contains(arg, "=") && strings.ContainsAny(arg[len(arg)-1:], valueShorthands) && i+1 < len(args) {
				i++
				parsed.known = append(parsed.known, args[i])
			}

		default:
			parsed.positionals = append(parsed.positionals, arg)
		}
	}

	return parsed
}

// dataKey converts a flag name to the render context key casing.
func dataKey(name string) string {
	return strcase.ToLowerCamel(name)
}
