package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ledgerhooks/hookexec/addr"
	"github.com/ledgerhooks/hookexec/hook"
	"github.com/ledgerhooks/hookexec/ledger"
	"github.com/ledgerhooks/hookexec/sto"
)

var runCmd = &cobra.Command{
	Use:   "run <module.wasm>",
	Short: "Execute a hook against an in-memory ledger snapshot",
	Long: `Run hook bytecode as if a payment touched its account.

The snapshot is synthetic: a single triggering payment, an empty state
store, and defaults for fee base and ledger sequence. The command
reports the terminal verdict, the guest's exit payload, the committed
state diff, and the emission queue.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("account", "", "Hook account address (default: a fixed built-in account)")
	runCmd.Flags().Bool("callback", false, "Invoke the cbak entry instead of hook")
	runCmd.Flags().Bool("trace", false, "Print the guest trace channel to stderr")
	runCmd.Flags().Int64("fee-base", 10, "Snapshot fee base in drops")
	runCmd.Flags().Uint32("ledger-seq", 3, "Snapshot ledger sequence")
	runCmd.Flags().Int("max-state-size", 128, "Per-entry state value cap")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	bytecode, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	account := ledger.AccountID{0x10, 0x0c, 0xed}
	if s, _ := cmd.Flags().GetString("account"); s != "" {
		id, err := addr.Decode(s)
		if err != nil {
			return fmt.Errorf("account %q: %w", s, err)
		}
		account = id
	}

	trigger := sto.NewObject()
	trigger.SetUint(sto.FieldTransactionType, uint64(ledger.TxPayment))
	trigger.SetBytes(sto.FieldAccount, make([]byte, 20))
	trigger.SetBytes(sto.FieldDestination, account[:])
	trigger.SetUint(sto.FieldAmount, 1000)
	trigger.SetUint(sto.FieldFee, 12)

	l := ledger.NewMemLedger(ledger.NewTx(trigger))
	feeBase, _ := cmd.Flags().GetInt64("fee-base")
	seq, _ := cmd.Flags().GetUint32("ledger-seq")
	maxState, _ := cmd.Flags().GetInt("max-state-size")
	l.SetFeeBase(feeBase)
	l.SetLedgerSeq(seq)
	l.MaxStateSize = maxState

	opts := []hook.Option{hook.WithMaxStateSize(maxState)}
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		opts = append(opts, hook.WithLogger(log))
	}

	callback, _ := cmd.Flags().GetBool("callback")
	hookHash := ledger.SHA512Half(bytecode)
	res := hook.NewRunner(opts...).Apply(context.Background(), hookHash, bytecode, l, account, callback)

	if res.Skipped {
		fmt.Println("skipped: hookOn mask suppresses this transaction type")
		return nil
	}
	fmt.Printf("verdict:     %s\n", res.ExitType)
	fmt.Printf("exit code:   %d\n", res.ExitCode)
	if len(res.ExitReason) > 0 {
		fmt.Printf("exit reason: %s\n", res.ExitReason)
	}
	if !res.TER.Success() {
		fmt.Printf("ledger:      %s (%d)\n", res.TER, res.TxResult())
	}
	for k, v := range res.ChangedState {
		if v == nil {
			fmt.Printf("state del:   %s\n", k)
			continue
		}
		fmt.Printf("state set:   %s = %s\n", k, hex.EncodeToString(v))
	}
	for i, tx := range res.Emitted {
		fmt.Printf("emitted[%d]:  %s (%d bytes)\n", i, tx.ID(), len(tx.Bytes()))
	}
	return nil
}
