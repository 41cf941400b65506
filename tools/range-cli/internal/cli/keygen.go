package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

func newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a keypair file in solana-keygen format",
		RunE: func(cmd *cobra.Command, args []string) error {
			outfile, err := cmd.Flags().GetString("outfile")
			if err != nil {
				return fmt.Errorf("failed to get outfile flag: %w", err)
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return fmt.Errorf("failed to get force flag: %w", err)
			}

			if !force {
				if _, err := os.Stat(outfile); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", outfile)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("failed to stat %s: %w", outfile, err)
				}
			}

			key, err := solana.NewRandomPrivateKey()
			if err != nil {
				return fmt.Errorf("failed to generate key: %w", err)
			}
			if err := writeKeygenFile(outfile, key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key.PublicKey())
			return nil
		},
	}
	cmd.Flags().StringP("outfile", "o", "", "Path of the keypair file to write")
	cmd.Flags().Bool("force", false, "Overwrite an existing keypair file")
	_ = cmd.MarkFlagRequired("outfile")
	return cmd
}

// writeKeygenFile writes key as a JSON array of byte values.
func writeKeygenFile(path string, key solana.PrivateKey) error {
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode keypair: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write keypair: %w", err)
	}
	return nil
}
