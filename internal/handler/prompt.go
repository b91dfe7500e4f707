package handler

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/noah-isme/siakad-cli/internal/service"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	isTerminalFunc   = term.IsTerminal   // mockable
)

func (r *Router) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.errOut)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return nil
}

func (r *Router) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrCancelled.Code, appErrors.ErrCancelled.Status, appErrors.ErrCancelled.Message)
	}
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword prompts without echo on a terminal and reads a plain line otherwise.
func (r *Router) readPassword(ctx context.Context) (string, error) {
	fmt.Fprint(r.errOut, "Enter password: ")
	fd := int(os.Stdin.Fd())
	if isTerminalFunc(fd) {
		pwd, err := readPasswordFunc(fd)
		fmt.Fprintln(r.errOut)
		if err != nil {
			return "", err
		}
		return string(pwd), nil
	}
	line, err := r.readLine(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}

// confirmer asks on the router's input unless assumeYes is set.
func (r *Router) confirmer(assumeYes bool) service.Confirmer {
	if assumeYes {
		return service.AlwaysConfirm
	}
	return service.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		fmt.Fprintf(r.errOut, "%s [y/N]: ", prompt)
		answer, err := r.readLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.errOut)
				return false, nil
			}
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}
