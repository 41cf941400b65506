package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/range/config"
	"github.com/malbeclabs/range/pkg/rangeverify"
	"github.com/malbeclabs/range/pkg/settingsstore"
	"github.com/malbeclabs/range/smartcontract/sdk/go/rangeprogram"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the range settings record",
	}
	cmd.AddCommand(
		newSettingsInitCmd(),
		newSettingsGetCmd(),
		newSettingsPDACmd(),
	)
	return cmd
}

func newSettingsInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the settings record with an authority and window size",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			windowSize, err := cmd.Flags().GetUint64("window-size")
			if err != nil {
				return fmt.Errorf("failed to get window-size flag: %w", err)
			}
			authorityStr, err := cmd.Flags().GetString("authority")
			if err != nil {
				return fmt.Errorf("failed to get authority flag: %w", err)
			}
			keypairPath, err := cmd.Flags().GetString("keypair")
			if err != nil {
				return fmt.Errorf("failed to get keypair flag: %w", err)
			}
			settingsFile, err := cmd.Flags().GetString("settings-file")
			if err != nil {
				return fmt.Errorf("failed to get settings-file flag: %w", err)
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return fmt.Errorf("failed to get force flag: %w", err)
			}

			var signer *solana.PrivateKey
			if keypairPath != "" {
				key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
				if err != nil {
					return fmt.Errorf("failed to load keypair: %w", err)
				}
				signer = &key
			}

			var authority solana.PublicKey
			switch {
			case authorityStr != "":
				authority, err = solana.PublicKeyFromBase58(authorityStr)
				if err != nil {
					return fmt.Errorf("invalid authority: %w", err)
				}
			case signer != nil:
				authority = signer.PublicKey()
			default:
				return fmt.Errorf("either --authority or --keypair is required")
			}

			log := newLogger(cmd.ErrOrStderr(), g.verbose)
			net, err := g.networkConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if settingsFile != "" {
				store := settingsstore.NewFile(settingsFile, net.RangeProgramID)
				if force {
					err = store.Reinitialize(windowSize, authority)
				} else {
					err = store.Initialize(windowSize, authority)
				}
				if errors.Is(err, settingsstore.ErrAlreadyInitialized) {
					return fmt.Errorf("%s: %w, use --force to overwrite", settingsFile, err)
				}
				if err != nil {
					return err
				}
				log.Debug("Wrote settings file", "path", settingsFile)
				printSettings(out, rangeverify.InitializeSettings(windowSize, authority), settingsFile)
				return nil
			}

			if force {
				return fmt.Errorf("--force is only supported with --settings-file")
			}
			if signer == nil {
				return fmt.Errorf("--keypair is required to initialize settings on the ledger")
			}
			store, err := settingsstore.NewLedger(settingsstore.LedgerConfig{
				Logger: log,
				Client: newRangeClient(log, net, signer),
			})
			if err != nil {
				return err
			}
			sig, err := store.Initialize(cmd.Context(), windowSize, authority)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Signature: %s\n", sig)
			printSettings(out, rangeverify.InitializeSettings(windowSize, authority), ledgerSource(net))
			return nil
		},
	}
	cmd.Flags().Uint64("window-size", 0, "Tolerance around the current time, in seconds")
	cmd.Flags().String("authority", "", "Public key allowed to sign range messages (default the keypair's)")
	cmd.Flags().StringP("keypair", "k", "", "Path to the payer keypair file")
	cmd.Flags().String("settings-file", "", "Write settings to a file instead of the ledger")
	cmd.Flags().Bool("force", false, "Overwrite an existing settings file")
	_ = cmd.MarkFlagRequired("window-size")
	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the settings record",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			settingsFile, err := cmd.Flags().GetString("settings-file")
			if err != nil {
				return fmt.Errorf("failed to get settings-file flag: %w", err)
			}

			log := newLogger(cmd.ErrOrStderr(), g.verbose)
			net, err := g.networkConfig()
			if err != nil {
				return err
			}
			settings, err := loadSettings(cmd.Context(), log, net, settingsFile)
			if err != nil {
				return err
			}

			source := settingsFile
			if source == "" {
				source = ledgerSource(net)
			}
			printSettings(cmd.OutOrStdout(), *settings, source)
			return nil
		},
	}
	cmd.Flags().String("settings-file", "", "Read settings from a file instead of the ledger")
	return cmd
}

func newSettingsPDACmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pda",
		Short: "Print the settings account address",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			net, err := g.networkConfig()
			if err != nil {
				return err
			}
			pda, bump, err := rangeprogram.DeriveSettingsPDA(net.RangeProgramID)
			if err != nil {
				return fmt.Errorf("failed to derive PDA: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Program ID: %s\n", net.RangeProgramID)
			fmt.Fprintf(out, "PDA: %s\n", pda)
			fmt.Fprintf(out, "Bump: %d\n", bump)
			return nil
		},
	}
}

func ledgerSource(net *config.NetworkConfig) string {
	return fmt.Sprintf("%s (%s)", net.Moniker, net.RangeProgramID)
}

func printSettings(w io.Writer, settings rangeverify.Settings, source string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader([]string{"Authority", "Window Size (s)", "Window", "Source"})
	table.Append([]string{
		settings.Authority.String(),
		strconv.FormatUint(settings.WindowSize, 10),
		settings.Window().String(),
		source,
	})
	table.Render()
}
