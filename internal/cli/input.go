package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input was
// read, the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetInt reads an integer. An empty line yields zero, for measurements that
// were not taken.
func GetInt(reader *bufio.Reader, prompt string, w io.Writer) (int, error) {
	s, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// GetFloat reads a decimal number with the same empty-line convention as
// GetInt.
func GetFloat(reader *bufio.Reader, prompt string, w io.Writer) (float64, error) {
	s, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
