// Command expensectl is the command-line client for the expense API.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/carson-networks/expense-server/internal/client"
	"github.com/carson-networks/expense-server/internal/rates"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "expensectl",
		Usage:     "record, browse and summarize expenses",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "expense API base URL",
				EnvVars: []string{"EXPENSE_API_URL"},
				Value:   client.DefaultBaseURL,
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token sent to the API",
				EnvVars: []string{"EXPENSE_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "rates-url",
				Usage:   "exchange rate service base URL",
				EnvVars: []string{"EXPENSE_RATES_URL"},
				Value:   rates.DefaultBaseURL,
			},
			&cli.StringFlag{
				Name:  "reference",
				Usage: "currency code summaries are reported in",
				Value: rates.DefaultReference,
			},
		},
		Commands: []*cli.Command{
			addCommand(),
			listCommand(),
			updateCommand(),
			deleteCommand(),
			summaryCommand(),
			exportCommand(),
			tokenCommand(),
		},
	}
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("api"), c.String("token"))
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
