package cli

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/range/smartcontract/sdk/go/rangeprogram"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
)

func newVerifyOnchainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-onchain",
		Short: "Verify a range message with the range program",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			keypairPath, err := cmd.Flags().GetString("keypair")
			if err != nil {
				return fmt.Errorf("failed to get keypair flag: %w", err)
			}
			message, err := cmd.Flags().GetString("message")
			if err != nil {
				return fmt.Errorf("failed to get message flag: %w", err)
			}
			signatureStr, err := cmd.Flags().GetString("signature")
			if err != nil {
				return fmt.Errorf("failed to get signature flag: %w", err)
			}

			signature, err := base58.Decode(signatureStr)
			if err != nil {
				return fmt.Errorf("failed to decode signature: %w", err)
			}
			key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
			if err != nil {
				return fmt.Errorf("failed to load keypair: %w", err)
			}

			log := newLogger(cmd.ErrOrStderr(), g.verbose)
			net, err := g.networkConfig()
			if err != nil {
				return err
			}
			client := newRangeClient(log, net, &key)

			out := cmd.OutOrStdout()
			sig, _, err := client.VerifyRange(cmd.Context(), rangeprogram.VerifyRangeInstructionConfig{
				Signer:    key.PublicKey(),
				Signature: signature,
				Message:   []byte(message),
			})
			var txErr *rangeprogram.TransactionError
			if errors.As(err, &txErr) && txErr.Code != nil {
				fmt.Fprintf(out, "REJECTED (%s): %s\n", txErr.Code.Reason(), sig)
				return errRejected
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "ACCEPTED: %s\n", sig)
			return nil
		},
	}
	cmd.Flags().StringP("keypair", "k", "", "Path to the fee payer keypair file")
	cmd.Flags().StringP("message", "m", "", "Message to verify, \"<timestamp>_<pubkey>\"")
	cmd.Flags().StringP("signature", "s", "", "Base58 signature over the message")
	_ = cmd.MarkFlagRequired("keypair")
	_ = cmd.MarkFlagRequired("message")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}
