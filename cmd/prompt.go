package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// prompter asks questions on the command's input and output. One prompter
// is used per command run so buffered input is not lost between questions.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// valueOr returns value, asking for it when empty
func (p *prompter) valueOr(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return p.ask(label)
}

// yes asks a y/N question; anything but y or yes is a no
func (p *prompter) yes(question string) (bool, error) {
	answer, err := p.ask(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
