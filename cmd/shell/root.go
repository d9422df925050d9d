package shell

import (
	"fmt"
	"strings"

	"github.com/Tony-Hui/KeyValueStore/cmd/util"
	"github.com/Tony-Hui/KeyValueStore/lib/kv"
	"github.com/Tony-Hui/KeyValueStore/lib/kv/engines/birch"
	"github.com/Tony-Hui/KeyValueStore/lib/store"
	"github.com/Tony-Hui/KeyValueStore/lib/store/instrument"
	"github.com/Tony-Hui/KeyValueStore/lib/store/tstore"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// shellStore is the in-process store the session runs against
	shellStore store.ITransactionalStore[string]

	// shellMetrics is non-nil when the session store is instrumented
	shellMetrics instrument.IInstrumentedStore[string]

	shellPrompt      = "kvs"
	shellMaxRecords  = uint32(100)
	shellHistoryFile = ""

	// ShellCmd represents the interactive shell command
	ShellCmd = &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session against an in-process store",
		Long: `Start an interactive session against a fresh in-process store.
The store lives in memory only; all data is lost when the session ends.
Type "help" inside the session for the list of commands.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitEnvConfig)

	// add flags
	key := "max-records"
	ShellCmd.PersistentFlags().Uint32(key, 100, util.WrapString("Default maximum number of records the show command prints"))

	key = "prompt"
	ShellCmd.PersistentFlags().String(key, "kvs", util.WrapString("Prompt prefix for the interactive session"))

	key = "capacity"
	ShellCmd.PersistentFlags().Int(key, 0, util.WrapString("Initial capacity hint for the base mapping (0 = engine default)"))

	key = "metrics"
	ShellCmd.PersistentFlags().Bool(key, true, util.WrapString("Collect operation counters, viewable with the stats command"))

	key = "history-file"
	ShellCmd.PersistentFlags().String(key, "", util.WrapString("Optional path to persist the shell input history"))
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	shellMaxRecords = viper.GetUint32("max-records")
	shellPrompt = viper.GetString("prompt")
	shellHistoryFile = viper.GetString("history-file")

	// build the session store
	capacity := viper.GetInt("capacity")
	base := tstore.NewTransactionalStore(func() kv.Mapping[string] {
		if capacity > 0 {
			return birch.NewMapping[string](&birch.Options{InitialCapacity: capacity})
		}
		return birch.NewMapping[string](nil)
	})

	if viper.GetBool("metrics") {
		shellMetrics = instrument.NewInstrumentedStore(base)
		shellStore = shellMetrics
	} else {
		shellMetrics = nil
		shellStore = base
	}

	return nil
}

// prompt renders the shell prompt, including the nesting depth when a
// transaction is open (e.g. "kvs(2)> ")
func prompt() string {
	if depth := shellStore.Depth(); depth > 0 {
		return fmt.Sprintf("%s(%d)> ", shellPrompt, depth)
	}
	return shellPrompt + "> "
}

func run(cmd *cobra.Command, _ []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt(),
		HistoryFile: shellHistoryFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize line reader: %w", err)
	}
	defer rl.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "kvs interactive shell - in-memory store, nothing is persisted\n")
	fmt.Fprintf(out, "type \"help\" for the list of commands, \"exit\" to leave\n")

	for {
		rl.SetPrompt(prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		}
		if err != nil { // io.EOF or a closed terminal
			break
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if quit := dispatch(out, fields[0], fields[1:]); quit {
			break
		}
	}

	return nil
}
