package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"paygen/config"
	"paygen/internal/payments"
)

var errNotProcessed = errors.New("payment not processed")

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var (
		configFile string
		input      payments.Input
	)

	cmd := &cobra.Command{
		Use:           "submit",
		Short:         "validate a payment and send it to the payment API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appConfig, err := config.LoadConfig(configFile)
			if err != nil {
				fmt.Fprintln(out, err)
				return err
			}
			logger := config.NewLogger(appConfig.Log)

			prompter := bufio.NewReader(in)
			fields := []struct {
				flag  string
				label string
				value *string
			}{
				{"identifier", appConfig.Form.IdentifierLabel, &input.Identifier},
				{"reference", "Reference", &input.Reference},
				{"amount", "Amount in GBP", &input.Amount},
			}
			for _, f := range fields {
				if cmd.Flags().Changed(f.flag) {
					continue
				}
				if *f.value, err = prompt(prompter, out, f.label); err != nil {
					return err
				}
			}

			processor := payments.NewPaymentProcessor(&http.Client{}, appConfig.Form.EndpointURL, appConfig.Form.IdentifierField, logger)
			form := payments.NewForm(processor, nil, logger)

			outcome := form.Submit(cmd.Context(), input)
			if outcome.RecordJSON != "" {
				fmt.Fprintln(out, outcome.RecordJSON)
			}
			fmt.Fprintf(out, "%s: %s\n", outcome.Kind, outcome.Message)

			if outcome.Kind != payments.NoticeSuccess {
				return errNotProcessed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "path to an optional YAML config file")
	cmd.Flags().StringVar(&input.Identifier, "identifier", "", "user id or username, depending on the configured identifier field")
	cmd.Flags().StringVar(&input.Reference, "reference", "", "payment reference")
	cmd.Flags().StringVar(&input.Amount, "amount", "", "amount in GBP")

	return cmd
}

func prompt(r *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", label, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
