package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/malbeclabs/range/pkg/rangeverify"
	"github.com/mr-tron/base58"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	errRejected = errors.New("rejected")
)

type verifyOptions struct {
	message         string
	signature       string
	settingsFile    string
	batch           string
	metricsTextfile string
	now             *uint64
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify range messages against the configured settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			opts, err := readVerifyOptions(cmd)
			if err != nil {
				return err
			}
			if opts.batch == "" && (opts.message == "" || opts.signature == "") {
				return fmt.Errorf("either --batch or both --message and --signature are required")
			}

			log := newLogger(cmd.ErrOrStderr(), g.verbose)
			net, err := g.networkConfig()
			if err != nil {
				return err
			}
			settings, err := loadSettings(cmd.Context(), log, net, opts.settingsFile)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			verifier, err := rangeverify.NewVerifier(rangeverify.Config{Logger: log})
			if err != nil {
				return err
			}
			now := verifier.Now()
			if opts.now != nil {
				now = *opts.now
			}

			if opts.metricsTextfile != "" {
				defer func() {
					if err := prometheus.WriteToTextfile(opts.metricsTextfile, prometheus.DefaultGatherer); err != nil {
						log.Error("Failed to write metrics textfile", "path", opts.metricsTextfile, "error", err)
					}
				}()
			}

			out := cmd.OutOrStdout()
			if opts.batch != "" {
				in := cmd.InOrStdin()
				if opts.batch != "-" {
					f, err := os.Open(opts.batch)
					if err != nil {
						return fmt.Errorf("failed to open batch file: %w", err)
					}
					defer f.Close()
					in = f
				}
				return verifyBatch(out, in, verifier, now, settings)
			}

			res := verifyOne(verifier, now, settings, opts.signature, opts.message)
			if res.err != nil {
				fmt.Fprintf(out, "%s (%s): %v\n", strings.ToUpper(res.result), res.reason, res.err)
				return errRejected
			}
			fmt.Fprintln(out, "ACCEPTED")
			return nil
		},
	}
	cmd.Flags().StringP("message", "m", "", "Message to verify, \"<timestamp>_<pubkey>\"")
	cmd.Flags().StringP("signature", "s", "", "Base58 signature over the message")
	cmd.Flags().String("settings-file", "", "Read settings from a file instead of the ledger")
	cmd.Flags().String("batch", "", "Verify \"<signature> <message>\" lines from a file, or - for stdin")
	cmd.Flags().String("metrics-textfile", "", "Write verification metrics in text format to this path")
	cmd.Flags().Uint64("now", 0, "Verify at this unix time instead of the current time")
	return cmd
}

func readVerifyOptions(cmd *cobra.Command) (*verifyOptions, error) {
	var opts verifyOptions
	var err error
	if opts.message, err = cmd.Flags().GetString("message"); err != nil {
		return nil, fmt.Errorf("failed to get message flag: %w", err)
	}
	if opts.signature, err = cmd.Flags().GetString("signature"); err != nil {
		return nil, fmt.Errorf("failed to get signature flag: %w", err)
	}
	if opts.settingsFile, err = cmd.Flags().GetString("settings-file"); err != nil {
		return nil, fmt.Errorf("failed to get settings-file flag: %w", err)
	}
	if opts.batch, err = cmd.Flags().GetString("batch"); err != nil {
		return nil, fmt.Errorf("failed to get batch flag: %w", err)
	}
	if opts.metricsTextfile, err = cmd.Flags().GetString("metrics-textfile"); err != nil {
		return nil, fmt.Errorf("failed to get metrics-textfile flag: %w", err)
	}
	if cmd.Flags().Changed("now") {
		now, err := cmd.Flags().GetUint64("now")
		if err != nil {
			return nil, fmt.Errorf("failed to get now flag: %w", err)
		}
		opts.now = &now
	}
	return &opts, nil
}

type verifyResult struct {
	line    int
	message string
	result  string
	reason  string
	err     error
}

func verifyOne(v *rangeverify.Verifier, now uint64, settings *rangeverify.Settings, signature, message string) verifyResult {
	res := verifyResult{message: message}

	// Signatures of any length are passed through; the verifier rejects malformed ones.
	sig, err := base58.Decode(signature)
	if err != nil {
		res.result = rangeverify.ResultError
		res.reason = "InvalidSignatureEncoding"
		res.err = fmt.Errorf("failed to decode signature: %w", err)
		return res
	}

	err = v.VerifyAt(now, settings, sig, []byte(message))
	var rejection *rangeverify.Error
	switch {
	case err == nil:
		res.result = rangeverify.ResultAccepted
	case errors.As(err, &rejection):
		res.result = rangeverify.ResultRejected
		res.reason = rejection.Reason()
		res.err = err
	default:
		res.result = rangeverify.ResultError
		res.reason = "Error"
		res.err = err
	}
	return res
}

// verifyBatch verifies each "<signature> <message>" line of r. Blank lines and lines starting with
// # are skipped.
func verifyBatch(w io.Writer, r io.Reader, v *rangeverify.Verifier, now uint64, settings *rangeverify.Settings) error {
	var results []verifyResult
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		signature, message, ok := strings.Cut(text, " ")
		if !ok {
			results = append(results, verifyResult{
				line:   line,
				result: rangeverify.ResultError,
				reason: "MalformedLine",
				err:    fmt.Errorf("want \"<signature> <message>\""),
			})
			continue
		}
		res := verifyOne(v, now, settings, signature, strings.TrimSpace(message))
		res.line = line
		results = append(results, res)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read batch: %w", err)
	}

	accepted := printBatchResults(w, results)
	fmt.Fprintf(w, "Accepted: %d/%d\n", accepted, len(results))
	if accepted != len(results) {
		return fmt.Errorf("%w: %d of %d messages", errRejected, len(results)-accepted, len(results))
	}
	return nil
}

func printBatchResults(w io.Writer, results []verifyResult) int {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader([]string{"Line", "Message", "Result", "Reason"})

	accepted := 0
	for _, res := range results {
		if res.err == nil {
			accepted++
		}
		table.Append([]string{
			strconv.Itoa(res.line),
			res.message,
			res.result,
			res.reason,
		})
	}
	table.Render()
	return accepted
}
