package cli

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/range/pkg/rangeverify"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
)

func newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a range message for the current or given timestamp",
		Long:  "Sign a range message and print \"<signature> <message>\", the line format read by verify --batch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			keypairPath, err := cmd.Flags().GetString("keypair")
			if err != nil {
				return fmt.Errorf("failed to get keypair flag: %w", err)
			}
			timestamp, err := cmd.Flags().GetUint64("timestamp")
			if err != nil {
				return fmt.Errorf("failed to get timestamp flag: %w", err)
			}
			if !cmd.Flags().Changed("timestamp") {
				timestamp = uint64(time.Now().Unix())
			}

			key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
			if err != nil {
				return fmt.Errorf("failed to load keypair: %w", err)
			}

			message, signature, err := rangeverify.SignMessage(key, timestamp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", base58.Encode(signature), message)
			return nil
		},
	}
	cmd.Flags().StringP("keypair", "k", "", "Path to the signer keypair file")
	cmd.Flags().Uint64("timestamp", 0, "Unix timestamp in seconds to sign (default now)")
	_ = cmd.MarkFlagRequired("keypair")
	return cmd
}
