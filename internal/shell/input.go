package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Input is a blocking line source. ReadLine returns io.EOF once the source
// is exhausted.
type Input interface {
	ReadLine(prompt string) (string, error)
}

// LineReader prints prompts to w and reads newline-terminated answers from r.
type LineReader struct {
	r *bufio.Reader
	w io.Writer
}

func NewLineReader(r io.Reader, w io.Writer) *LineReader {
	return &LineReader{r: bufio.NewReader(r), w: w}
}

func (l *LineReader) ReadLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(l.w, prompt); err != nil {
		return "", err
	}
	line, err := l.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
