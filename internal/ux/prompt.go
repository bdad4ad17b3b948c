package ux

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirm asks a yes/no question on out and reads the answer from in. Only "y" and
// "yes" confirm. Cancelling ctx abandons the read and returns ctx.Err().
func Confirm(ctx context.Context, in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "  %s⚠ %s%s [y/N]: ", Yellow, question, Reset)
	reader := bufio.NewReader(in)

	type readResult struct {
		input string
		err   error
	}
	ch := make(chan readResult, 1)
	go func() {
		line, err := reader.ReadString('\n')
		ch <- readResult{input: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(out)
		return false, ctx.Err()
	case r := <-ch:
		if r.err != nil && r.err != io.EOF {
			return false, r.err
		}
		switch strings.ToLower(r.input) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}
