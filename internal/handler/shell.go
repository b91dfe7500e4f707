package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Shell runs commands line by line against the same session until EOF,
// exit or cancellation. Command failures are reported and the loop goes on.
func (r *Router) Shell(ctx context.Context) error {
	fmt.Fprintln(r.errOut, "siakad shell. Type help for commands, exit to quit.")
	for {
		fmt.Fprint(r.errOut, r.prompt())
		line, err := r.readLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.errOut)
				return nil
			}
			return err
		}

		args, err := splitArgs(line)
		if err != nil {
			r.Report(err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return nil
		case "shell":
			continue
		}
		if err := r.Run(ctx, args); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.Report(err)
		}
	}
}

func (r *Router) prompt() string {
	if user, ok := r.deps.Session.User(); ok {
		return fmt.Sprintf("siakad(%s)> ", user.Username)
	}
	return "siakad> "
}

// splitArgs splits a shell line on whitespace, honouring double quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, c := range line {
		switch {
		case c == '"':
			quoted = !quoted
			started = true
		case unicode.IsSpace(c) && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(c)
			started = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}
