// Package admin implements the command that creates the first administrator
// or promotes an existing account. Signup always creates plain users, so this
// is the only way to obtain the admin role on a fresh install.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/flagx"
)

type Bootstrapper interface {
	BootstrapAdmin(ctx context.Context, name, email, password string) (bool, error)
}

// Options are the values given on the command line. Empty fields are
// prompted for.
type Options struct {
	Name  string
	Email string
}

// ParseFlags reads -name and -email from args, ignoring flags that belong to
// the server configuration.
func ParseFlags(args []string) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.Name, "name", "", "administrator full name")
	fs.StringVar(&opts.Email, "email", "", "administrator email")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-name", "-email"})); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Run collects missing details, asks for the password twice and calls
// BootstrapAdmin.
func Run(ctx context.Context, b Bootstrapper, opts Options, in *bufio.Reader, out io.Writer) error {
	var err error

	if opts.Name == "" {
		if opts.Name, err = GetSimpleText(in, "Full name", out); err != nil {
			return err
		}
	}
	if opts.Email == "" {
		if opts.Email, err = GetSimpleText(in, "Email", out); err != nil {
			return err
		}
	}

	pw, err := GetPassword(out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	confirm, err := GetPassword(out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		return common.ErrPasswordMismatch
	}

	created, err := b.BootstrapAdmin(ctx, opts.Name, opts.Email, string(pw))
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(out, "Administrator %s created\n", opts.Email)
	} else {
		fmt.Fprintf(out, "User %s promoted to administrator\n", opts.Email)
	}
	return nil
}
