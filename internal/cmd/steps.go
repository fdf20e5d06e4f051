package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"

	"github.com/yumosx/looplist/internal/sim"
)

// MaybeReadStdin returns the piped standard input, or nil when stdin is a
// terminal.
func MaybeReadStdin() (io.Reader, error) {
	if term.IsTerminal(os.Stdin.Fd()) {
		return nil, nil
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Mode()&os.ModeNamedPipe == 0 && !fi.Mode().IsRegular() {
		return nil, nil
	}
	return os.Stdin, nil
}

// readSteps splits a step script into words. Lines starting with # are
// comments.
func readSteps(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.Fields(line)...)
	}
	return words, scanner.Err()
}

func parseSteps(words []string) ([]sim.Step, error) {
	steps := make([]sim.Step, 0, len(words))
	for _, w := range words {
		step, err := sim.ParseStep(w)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}
