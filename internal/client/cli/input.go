package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var readPassword = term.ReadPassword

// GetSimpleText prompts on w and returns the next line of lines, trimmed.
// The REPL shares the same scanner, so answers and commands come from one
// stream. io.EOF means input has ended.
func GetSimpleText(lines *bufio.Scanner, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", prompt); err != nil {
		return "", err
	}
	if !lines.Scan() {
		if err := lines.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(lines.Text()), nil
}

// GetPassword reads a password from the terminal without echo. Callers
// wipe the result with common.WipeByteArray.
func GetPassword(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "%s: ", prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return pw, err
}

// parseIndex maps a 1-based position typed by the user onto a slice of
// length n.
func parseIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	switch {
	case err != nil:
		return 0, fmt.Errorf("%q is not a number", arg)
	case i < 1 || i > n:
		return 0, fmt.Errorf("no item #%d (have %d)", i, n)
	}
	return i - 1, nil
}
