package attach

import (
	"bufio"
	"io"
	"strings"
)

// TextExtractor handles plain text reports, normalizing paragraph breaks.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b textBuilder
	var current []string
	flush := func() {
		b.para(strings.Join(current, "\n"))
		current = current[:0]
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	flush()
	return b.String(), nil
}
