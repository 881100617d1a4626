package command

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[^\s"]+|"([^"]*)"`)

// Command is one parsed input line
type Command struct {
	// Name is the first token, lower-cased
	Name string
	// Args are the remaining tokens with quotes stripped
	Args []string
	// Payload is the raw text after the first token, trimmed
	Payload string
}

// Arg returns the i-th argument or "" when absent
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Rest joins the arguments from i on with single spaces
func (c Command) Rest(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[i:], " ")
}

// Tokenize splits a line into tokens. A token is a run of characters that are
// neither whitespace nor a double quote, or the contents of a "..." segment.
// There is no escape processing; an unmatched quote is dropped.
func Tokenize(line string) []string {
	matches := tokenPattern.FindAllStringSubmatch(line, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.HasPrefix(m[0], `"`) {
			tokens = append(tokens, m[1])
			continue
		}
		tokens = append(tokens, m[0])
	}
	return tokens
}

// Parse turns a raw line into a Command. ok is false for blank input.
func Parse(line string) (cmd Command, ok bool) {
	line = strings.TrimSpace(line)
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return Command{}, false
	}

	cmd = Command{
		Name: strings.ToLower(tokens[0]),
		Args: tokens[1:],
	}

	first := tokenPattern.FindStringIndex(line)
	cmd.Payload = strings.TrimSpace(line[first[1]:])
	return cmd, true
}
