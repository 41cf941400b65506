package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/malbeclabs/range/config"
	"github.com/malbeclabs/range/pkg/solrpc"
	"github.com/malbeclabs/range/smartcontract/sdk/go/rangeprogram"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

func Run() ExitCode {
	// RANGE_* overrides may come from a local .env file.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "range-cli",
		Short:        "Sign and verify timestamped range messages.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "set debug logging level")
	rootCmd.PersistentFlags().StringP("env", "e", config.EnvDevnet, "The network environment (mainnet-beta, testnet, devnet, localnet)")
	rootCmd.PersistentFlags().String("rpc-url", "", "Override the RPC URL of the environment")
	rootCmd.PersistentFlags().String("program-id", "", "Override the range program ID of the environment")

	rootCmd.AddCommand(
		newKeygenCmd(),
		newSignCmd(),
		newVerifyCmd(),
		newSettingsCmd(),
		newVerifyOnchainCmd(),
	)
	return rootCmd
}

type globalFlags struct {
	verbose   bool
	env       string
	rpcURL    string
	programID string
}

func readGlobalFlags(cmd *cobra.Command) (*globalFlags, error) {
	flags := cmd.Root().PersistentFlags()
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	env, err := flags.GetString("env")
	if err != nil {
		return nil, fmt.Errorf("failed to get env flag: %w", err)
	}
	rpcURL, err := flags.GetString("rpc-url")
	if err != nil {
		return nil, fmt.Errorf("failed to get rpc-url flag: %w", err)
	}
	programID, err := flags.GetString("program-id")
	if err != nil {
		return nil, fmt.Errorf("failed to get program-id flag: %w", err)
	}
	return &globalFlags{verbose: verbose, env: env, rpcURL: rpcURL, programID: programID}, nil
}

// networkConfig resolves the environment, then applies flag overrides on top of env-var overrides.
func (g *globalFlags) networkConfig() (*config.NetworkConfig, error) {
	net, err := config.NetworkConfigForEnv(g.env)
	if err != nil {
		return nil, err
	}
	if g.rpcURL != "" {
		net.RPCURL = g.rpcURL
	}
	if g.programID != "" {
		programID, err := solana.PublicKeyFromBase58(g.programID)
		if err != nil {
			return nil, fmt.Errorf("invalid program ID: %w", err)
		}
		net.RangeProgramID = programID
	}
	return net, nil
}

func newRangeClient(log *slog.Logger, net *config.NetworkConfig, signer *solana.PrivateKey) *rangeprogram.Client {
	rpcClient := solrpc.NewWithRetries(net.RPCURL, nil)
	return rangeprogram.New(log, rpcClient, signer, net.RangeProgramID)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
