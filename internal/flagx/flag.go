// Package flagx holds the helpers both binaries use to layer
// configuration: picking their own flags out of os.Args and locating the
// optional JSON config file.
package flagx

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
)

// flagName returns the bare name of a flag token ("--config=x" gives
// "config") and whether the token carries its value inline.
func flagName(tok string) (name string, inline bool, ok bool) {
	if len(tok) < 2 || tok[0] != '-' {
		return "", false, false
	}
	name = strings.TrimPrefix(tok[1:], "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		return name[:i], true, name[:i] != ""
	}
	return name, false, name != ""
}

// FilterArgs keeps the flags called one of names, with their values, and
// drops everything else. Names are given bare ("c", "config"); single and
// double dash forms both match. A token starting with "-" is never taken
// as a value.
func FilterArgs(args []string, names ...string) []string {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	out := []string{}
	for i := 0; i < len(args); i++ {
		name, inline, ok := flagName(args[i])
		if !ok || !keep[name] {
			continue
		}
		out = append(out, args[i])
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

// JSONConfigPath returns the value of -c / -config in args, or "".
func JSONConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, "c", "config"))

	return path
}

// LoadJSON decodes the file at path into dst. Unknown keys are an error.
func LoadJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}
