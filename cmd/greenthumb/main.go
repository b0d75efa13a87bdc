// Package main provides the GreenThumb CLI: an AI gardening planner with saved
// schedule history, an assistant chat and optional speech input.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	greenthumbcontext "greenthumb/internal/context"
	"greenthumb/internal/logger"
	"greenthumb/internal/output"
	"greenthumb/internal/services"
	"greenthumb/internal/shell"
	"greenthumb/internal/storage"
)

// initServices is replaced in tests to install fake providers after initialization.
var initServices = shell.InitializeServices

// flagConfigKeys maps persistent flags onto configuration keys.
var flagConfigKeys = map[string]string{
	"store":    services.KeyStore,
	"provider": services.KeyProvider,
	"model":    services.KeyModel,
	"timeout":  services.KeyTimeout,
}

// errSilent marks errors that were already reported to the user.
var errSilent = errors.New("command failed")

func main() {
	if err := execute(newRootCmd()); err != nil {
		if !errors.Is(err, errSilent) {
			output.Error(services.UserMessage(err))
		}
		os.Exit(1)
	}
}

// execute runs root and releases services afterwards, including when the command fails.
func execute(root *cobra.Command) error {
	defer shell.ShutdownServices()
	return root.Execute()
}

// newRootCmd builds the command tree. Each call returns an independent tree with its
// own viper instance.
func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "greenthumb",
		Short: "GreenThumb - AI gardening planner",
		Long: `GreenThumb builds a personalized gardening schedule for your location, space and goals.
Save schedules to history, reload them later, and ask the assistant how things work.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd, v)
		},
	}

	flags := root.PersistentFlags()
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: warn]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.Bool("test-mode", false, "Run in deterministic test mode")
	flags.String("store", "", "Storage backend (sqlite|redis|memory) [default: sqlite]")
	flags.String("provider", "", "Completion provider (gemini|openai|anthropic) [default: gemini]")
	flags.String("model", "", "Model name for the selected provider")
	flags.Duration("timeout", 0, "Timeout for each AI request, e.g. 90s (0 = no limit)")
	flags.Bool("ephemeral", false, "Keep history and preferences in memory only")

	for _, name := range []string{"log-level", "log-file", "test-mode", "store", "provider", "model", "timeout", "ephemeral"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", name, err))
		}
	}
	_ = v.BindEnv("log-level", "GREENTHUMB_LOG_LEVEL")

	root.AddCommand(
		newPlanCmd(),
		newShowCmd(),
		newHistoryCmd(),
		newAssistantCmd(),
		newPrefsCmd(),
		newVersionCmd(),
	)
	return root
}

// setup configures logging, copies flag values into the configuration layer and
// initializes the services. The version command needs none of it.
func setup(cmd *cobra.Command, v *viper.Viper) error {
	testMode := v.GetBool("test-mode")
	if err := logger.Configure(v.GetString("log-level"), v.GetString("log-file"), testMode); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}
	if cmd.Name() == "version" {
		return nil
	}

	ctx := greenthumbcontext.GetGlobalContext()
	for flag, key := range flagConfigKeys {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		value := v.GetString(flag)
		if flag == "timeout" {
			value = v.GetDuration(flag).String()
		}
		ctx.SetConfigValue(key, value)
	}
	if v.GetBool("ephemeral") {
		ctx.SetConfigValue(services.KeyStore, storage.BackendMemory)
	}

	if err := initServices(testMode); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	logger.Debug("GreenThumb ready", "command", cmd.CommandPath())
	return nil
}

// requestContext bounds ctx with the configured AI request timeout.
func requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	config, err := services.GetGlobalConfigurationService()
	if err != nil {
		return context.WithCancel(ctx)
	}
	if timeout := config.GetTimeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// formatSavedAt renders history timestamps for messages.
func formatSavedAt(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 15:04")
}
