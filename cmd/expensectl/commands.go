package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/client"
	"github.com/carson-networks/expense-server/internal/clientstate"
	"github.com/carson-networks/expense-server/internal/rates"
	"github.com/carson-networks/expense-server/internal/summary"
)

var (
	errMissingID             = errors.New("expense id is required")
	errMissingCustomCategory = errors.New("custom category is required when category is Other")
	errEmptySecret           = errors.New("secret cannot be empty")
)

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "category", Usage: "only this category"},
		&cli.StringFlag{Name: "start-date", Usage: "earliest date, YYYY-MM-DD"},
		&cli.StringFlag{Name: "end-date", Usage: "latest date, YYYY-MM-DD"},
	}
}

func expenseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "amount", Usage: "positive amount, e.g. 12.50"},
		&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD"},
		&cli.StringFlag{Name: "note", Usage: "free text, up to 500 characters"},
		&cli.StringFlag{Name: "currency", Usage: "currency symbol, e.g. $"},
		&cli.StringFlag{Name: "category", Usage: strings.Join(clientstate.Categories, ", ")},
		&cli.StringFlag{Name: "custom-category", Usage: "category name used with --category Other"},
	}
}

func filters(c *cli.Context) clientstate.Filters {
	return clientstate.Filters{
		Category:  c.String("category"),
		StartDate: c.String("start-date"),
		EndDate:   c.String("end-date"),
	}
}

// expenseInput collects only the flags given on the command line.
func expenseInput(c *cli.Context) (client.ExpenseInput, error) {
	var in client.ExpenseInput

	if c.IsSet("amount") {
		amount, err := decimal.NewFromString(c.String("amount"))
		if err != nil {
			return in, fmt.Errorf("invalid amount '%s'", c.String("amount"))
		}
		in.Amount = &amount
	}
	if c.IsSet("date") {
		in.Date = stringPtr(c.String("date"))
	}
	if c.IsSet("note") {
		in.Note = stringPtr(c.String("note"))
	}
	if c.IsSet("currency") {
		in.Currency = stringPtr(c.String("currency"))
	}

	if c.IsSet("category") || c.IsSet("custom-category") {
		form := clientstate.NewForm()
		if c.IsSet("category") {
			form.Category = c.String("category")
		}
		form.CustomCategory = strings.TrimSpace(c.String("custom-category"))
		category := form.ResolvedCategory()
		if category == "" {
			return in, errMissingCustomCategory
		}
		in.Category = &category
	}

	return in, nil
}

func stringPtr(s string) *string {
	return &s
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "record a new expense",
		Flags: expenseFlags(),
		Action: func(c *cli.Context) error {
			in, err := expenseInput(c)
			if err != nil {
				return err
			}
			if in.Amount == nil {
				return errors.New("--amount is required")
			}
			if in.Date == nil {
				in.Date = stringPtr(time.Now().Format(time.DateOnly))
			}

			created, err := apiClient(c).Create(c.Context, in)
			if err != nil {
				return fmt.Errorf("create expense: %w", err)
			}
			printExpenses(c.App.Writer, []client.Expense{*created})
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "show one page of expenses, newest first",
		Flags: append(filterFlags(),
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "limit", Value: 20},
		),
		Action: func(c *cli.Context) error {
			state := clientstate.New().SetFilters(filters(c)).GoToPage(c.Int("page"))
			query := state.Query()
			query.Limit = c.Int("limit")

			state = state.LoadStarted()
			page, err := apiClient(c).List(c.Context, query)
			if err != nil {
				state = state.LoadFailed()
				return fmt.Errorf("%s: %w", state.Error, err)
			}
			state = state.LoadSucceeded(*page)

			printExpenses(c.App.Writer, state.Records)
			fmt.Fprintf(c.App.Writer, "Page %d of %d (%d expenses)\n",
				state.Meta.CurrentPage, state.Meta.TotalPages, state.Meta.TotalItems)
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "change fields of an expense",
		ArgsUsage: "<id>",
		Flags:     expenseFlags(),
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return errMissingID
			}
			in, err := expenseInput(c)
			if err != nil {
				return err
			}

			updated, err := apiClient(c).Update(c.Context, id, in)
			if err != nil {
				return fmt.Errorf("update expense: %w", err)
			}
			printExpenses(c.App.Writer, []client.Expense{*updated})
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "remove an expense",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return errMissingID
			}
			if err := apiClient(c).Delete(c.Context, id); err != nil {
				return fmt.Errorf("delete expense: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "Deleted %s\n", id)
			return nil
		},
	}
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "total every matching expense in the reference currency",
		Flags: append(filterFlags(),
			&cli.StringFlag{Name: "month", Usage: "restrict to one month, e.g. \"March 2024\""},
		),
		Action: func(c *cli.Context) error {
			state := clientstate.New().SetFilters(filters(c)).LoadStarted()
			all, err := apiClient(c).ListAll(c.Context, state.Query())
			if err != nil {
				state = state.LoadFailed()
				return fmt.Errorf("%s: %w", state.Error, err)
			}
			state = state.LoadSucceeded(client.Page{Data: all})

			reference := strings.ToUpper(c.String("reference"))
			state = state.RatesLoaded(rates.NewFetcher(c.String("rates-url")).Load(c.Context, reference))
			if state.Warning != "" {
				fmt.Fprintf(c.App.ErrWriter, "Warning: %s\n", state.Warning)
			}

			if month := c.String("month"); month != "" {
				if !slices.Contains(state.Months(), month) {
					return fmt.Errorf("no expenses in %s", month)
				}
				state = state.SelectSummaryMonth(month)
			}

			printSummary(c.App.Writer, state.Summary(), referenceSymbol(reference))
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "download matching expenses as a spreadsheet",
		Flags: append(filterFlags(),
			&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv or xlsx"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "file to write, defaults to the server's filename"},
		),
		Action: func(c *cli.Context) error {
			query := clientstate.New().SetFilters(filters(c)).Query()
			data, filename, err := apiClient(c).Export(c.Context, query, c.String("format"))
			if err != nil {
				return fmt.Errorf("export expenses: %w", err)
			}

			path := c.String("output")
			if path == "" {
				path = filename
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(c.App.Writer, "Saved %d bytes to %s\n", len(data), path)
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint a development bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Required: true, Usage: "user id carried in the token"},
			&cli.StringFlag{Name: "secret", EnvVars: []string{"AUTH_SECRET"}, Usage: "shared signing secret, prompted for if omitted"},
			&cli.StringFlag{Name: "issuer", EnvVars: []string{"AUTH_ISSUER"}},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			secret := c.String("secret")
			if secret == "" {
				fmt.Fprint(c.App.ErrWriter, "Secret: ")
				var err error
				secret, err = readPassword(c.App.Reader)
				if err != nil {
					return fmt.Errorf("failed to read secret: %w", err)
				}
				fmt.Fprintln(c.App.ErrWriter)
			}
			if strings.TrimSpace(secret) == "" {
				return errEmptySecret
			}

			token, err := auth.GenerateToken(secret, c.String("subject"), c.String("issuer"), c.Duration("ttl"))
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

func printExpenses(w io.Writer, expenses []client.Expense) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tNOTE")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s%s\t%s\t%s\n", e.ID, e.Date, e.Currency, e.Amount.StringFixed(2), e.Category, e.Note)
	}
	tw.Flush()
}

func printSummary(w io.Writer, s summary.Summary, symbol string) {
	fmt.Fprintf(w, "Total: %s%s\n", symbol, s.Total.StringFixed(2))
	printBuckets(w, "By category", s.ByCategory, symbol)
	printBuckets(w, "By month", s.ByMonth, symbol)
}

func printBuckets(w io.Writer, title string, buckets []summary.Bucket, symbol string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, b := range buckets {
		fmt.Fprintf(tw, "  %s\t%s%s\n", b.Name, symbol, b.Amount.StringFixed(2))
	}
	tw.Flush()
}

func referenceSymbol(code string) string {
	if symbol, ok := rates.SymbolForCode(code); ok {
		return symbol
	}
	return code + " "
}
