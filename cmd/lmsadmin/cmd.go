package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/pressly/goose/v3"
	"golang.org/x/term"

	"github.com/sakif/lms-admin/internal/auth"
	"github.com/sakif/lms-admin/internal/model"
	"github.com/sakif/lms-admin/internal/repository"
)

var (
	readPasswordFunc = term.ReadPassword // replaced in tests

	errHelp = errors.New("help provided")
)

// migrator is satisfied by *database.Pool.
type migrator interface {
	Migrator() (*goose.Provider, error)
}

type commandLine struct {
	migrator     migrator
	institutions repository.InstitutionRepository
	admins       repository.AdminRepository
	passwords    *auth.PasswordService
	out          io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate up|down|status|version|reset                       - manage the schema")
	fmt.Fprintln(cli.out, "  addinstitution -name NAME                                  - create an institution")
	fmt.Fprintln(cli.out, "  addadmin -institution ID -email EMAIL -first NAME -last NAME - create or update an admin; the password is prompted")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2])

	case "addinstitution":
		fs := flag.NewFlagSet("addinstitution", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		name := fs.String("name", "", "Display name of the institution.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if strings.TrimSpace(*name) == "" {
			fs.Usage()
			return errHelp
		}
		return cli.addInstitution(ctx, *name)

	case "addadmin":
		fs := flag.NewFlagSet("addadmin", flag.ContinueOnError)
		fs.SetOutput(cli.out)
		instID := fs.Int64("institution", 0, "Id of the institution the admin manages.")
		email := fs.String("email", "", "Login email.")
		first := fs.String("first", "", "First name.")
		last := fs.String("last", "", "Last name.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *instID <= 0 || *email == "" || *first == "" || *last == "" {
			fs.Usage()
			return errHelp
		}

		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			fs.Usage()
			return errHelp
		}
		return cli.addAdmin(ctx, *instID, *email, *first, *last, string(pwd))

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) migrate(ctx context.Context, command string) error {
	provider, err := cli.migrator.Migrator()
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		cli.printResults(results)
		return err
	case "down":
		result, err := provider.Down(ctx)
		if result != nil {
			cli.printResults([]*goose.MigrationResult{result})
		}
		return err
	case "reset":
		results, err := provider.DownTo(ctx, 0)
		cli.printResults(results)
		return err
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			applied := "pending"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(cli.out, "%-6d %-24s %s\n", st.Source.Version, applied, st.Source.Path)
		}
		return nil
	case "version":
		v, err := provider.GetDBVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "version %d\n", v)
		return nil
	default:
		return fmt.Errorf("%q: no such migrate command", command)
	}
}

func (cli *commandLine) printResults(results []*goose.MigrationResult) {
	if len(results) == 0 {
		fmt.Fprintln(cli.out, "no migrations to run")
		return
	}
	for _, r := range results {
		fmt.Fprintf(cli.out, "%-4s %-6d %s (%s)\n", r.Direction, r.Source.Version, r.Source.Path, r.Duration)
	}
}

func (cli *commandLine) addInstitution(ctx context.Context, name string) error {
	inst := &model.Institution{Name: strings.TrimSpace(name)}
	if err := cli.institutions.CreateInstitution(ctx, inst); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "institution %d created\n", inst.ID)
	return nil
}

// addAdmin creates an admin, or resets the names and password of the admin
// that already owns email.
func (cli *commandLine) addAdmin(ctx context.Context, institutionID int64, email, first, last, pwd string) error {
	if _, err := cli.institutions.GetInstitution(ctx, institutionID); err != nil {
		return err
	}

	hash, err := cli.passwords.Hash(pwd)
	if err != nil {
		return err
	}

	admin := &model.Admin{
		InstitutionID: institutionID,
		FirstName:     strings.TrimSpace(first),
		LastName:      strings.TrimSpace(last),
		Email:         strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:  sql.NullString{String: hash, Valid: true},
	}
	if err := cli.admins.SaveAdmin(ctx, admin); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "admin %d saved for institution %d\n", admin.ID, admin.InstitutionID)
	return nil
}
