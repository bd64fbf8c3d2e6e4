package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/claimcheck/internal/client/api"
	"github.com/dmitrijs2005/claimcheck/internal/client/session"
	"github.com/dmitrijs2005/claimcheck/internal/flagx"
)

func (a *App) register(ctx context.Context, args []string) error {
	var email, name string
	fs := flagx.NewFlagSet("register")
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&name, "name", "", "full name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if email == "" {
		if email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	if name == "" {
		if name, err = GetSimpleText(a.reader, "Full name", a.out); err != nil {
			return err
		}
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.Register(ctx, email, password, name)
	if err != nil {
		return err
	}
	if err := a.saveSession(ctx, resp); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", resp.User.Email)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	var email string
	fs := flagx.NewFlagSet("login")
	fs.StringVar(&email, "email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if email == "" {
		if email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.saveSession(ctx, resp); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", resp.User.Email)
	return nil
}

func (a *App) saveSession(ctx context.Context, resp *api.TokenResponse) error {
	err := a.store.Save(ctx, session.Session{AccessToken: resp.AccessToken, Email: resp.User.Email})
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) me(ctx context.Context, _ []string) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\nid: %s\n", u.FullName, u.Email, u.ID)
	return nil
}

func (a *App) analyze(ctx context.Context, args []string) error {
	var docs api.Documents
	fs := flagx.NewFlagSet("analyze")
	fs.StringVar(&docs.Policy, "policy", "", "policy PDF")
	fs.StringVar(&docs.Claim, "claim", "", "claim form PDF")
	fs.StringVar(&docs.Bills, "bills", "", "bills PDF")
	fs.StringVar(&docs.DoctorNotes, "doctor-notes", "", "doctor notes PDF")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var missing []string
	for flag, v := range map[string]string{
		"--policy": docs.Policy, "--claim": docs.Claim, "--bills": docs.Bills, "--doctor-notes": docs.DoctorNotes,
	} {
		if v == "" {
			missing = append(missing, flag)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: analyze needs %s", ErrUsage, strings.Join(missing, ", "))
	}

	fmt.Fprintln(a.out, "Analyzing claim, this can take a minute...")
	res, err := a.api.Analyze(ctx, docs)
	if err != nil {
		return err
	}
	printAnalysis(a, res)
	return nil
}

func (a *App) history(ctx context.Context, args []string) error {
	var limit int
	fs := flagx.NewFlagSet("history")
	fs.IntVar(&limit, "limit", 0, "maximum number of records")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := a.api.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No analyses yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDECISION\tCONFIDENCE\tANALYZED AT\tCLAIM FILE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Decision, confidence(r.ConfidenceScore), r.AnalyzedAt.Local().Format(time.DateTime), r.ClaimFile)
	}
	return tw.Flush()
}

func (a *App) show(ctx context.Context, args []string) error {
	fs := flagx.NewFlagSet("show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 || rest[1] == "" {
		return fmt.Errorf("%w: show needs an analysis id", ErrUsage)
	}

	res, err := a.api.Get(ctx, rest[1])
	if err != nil {
		return err
	}
	printAnalysis(a, res)
	return nil
}

func printAnalysis(a *App, r *api.Analysis) {
	fmt.Fprintf(a.out, "ID:         %s\n", r.ID)
	fmt.Fprintf(a.out, "Decision:   %s\n", r.Decision)
	fmt.Fprintf(a.out, "Confidence: %s\n", confidence(r.ConfidenceScore))
	fmt.Fprintf(a.out, "Analyzed:   %s\n", r.AnalyzedAt.Local().Format(time.DateTime))
	if r.PolicyFile != "" {
		fmt.Fprintf(a.out, "Files:      %s, %s, %s, %s\n", r.PolicyFile, r.ClaimFile, r.BillsFile, r.DoctorNotesFile)
	}
	fmt.Fprintf(a.out, "\n%s\n", r.Reasoning)
}

func confidence(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}
