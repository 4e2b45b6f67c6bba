package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Station-Manager/utils"
	"github.com/satter0827/werewolf-agent/internal/game"
	"github.com/satter0827/werewolf-agent/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const commandLoggerName = "werewolf_agent.command"

type runConfig struct {
	LogDir    string
	LogConfig string
	LogLevel  string
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "werewolf",
		Short:        "Werewolf agent game master",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.ErrOrStderr(), runConfig{
				LogDir:    v.GetString("log_dir"),
				LogConfig: v.GetString("log_config"),
				LogLevel:  v.GetString("log_level"),
			})
		},
	}

	flags := cmd.Flags()
	flags.String("log-dir", "logs", "directory for per-component log files (empty disables file logging)")
	flags.String("log-config", "", "INI file with a [logger] section")
	flags.String("log-level", "", "level override (DEBUG, INFO, WARNING, ERROR, CRITICAL)")

	// Bind flags to viper; WEREWOLF_LOG_DIR etc. apply when a flag is unset.
	_ = v.BindPFlag("log_dir", flags.Lookup("log-dir"))
	_ = v.BindPFlag("log_config", flags.Lookup("log-config"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	v.SetEnvPrefix("WEREWOLF")
	v.AutomaticEnv()

	return cmd
}

// run configures the loggers of every component up front; the game code
// then picks them up by name.
func run(stderr io.Writer, cfg runConfig) (err error) {
	reg := logging.NewRegistry(logging.WithConsoleWriter(stderr))
	defer func() {
		err = errors.Join(err, reg.Shutdown())
	}()

	exeName, err := utils.ExecName(true)
	if err != nil {
		return fmt.Errorf("failed to get executable name: %w", err)
	}

	// The command logs to <executable>.log, components to <component>.log.
	files := map[string]string{
		commandLoggerName:     exeName + ".log",
		game.MasterLoggerName: logFileName(game.MasterLoggerName),
		game.EngineLoggerName: logFileName(game.EngineLoggerName),
	}
	for _, name := range []string{commandLoggerName, game.MasterLoggerName, game.EngineLoggerName} {
		if _, err := reg.Setup(name, loggerOptions(cfg, files[name])...); err != nil {
			return fmt.Errorf("setting up logger %s: %w", name, err)
		}
	}
	log, _ := reg.Get(commandLoggerName)

	gm, err := game.NewGameMaster(reg)
	if err != nil {
		return err
	}
	if err := gm.StartGame(); err != nil {
		return err
	}
	if err := gm.EndGame(); err != nil {
		return err
	}

	return log.Infof("game finished in state %s", gm.Engine().State)
}

func loggerOptions(cfg runConfig, file string) []logging.SetupOption {
	var opts []logging.SetupOption
	if cfg.LogDir != "" {
		opts = append(opts, logging.WithFile(filepath.Join(cfg.LogDir, file)))
	}
	if cfg.LogConfig != "" {
		opts = append(opts, logging.WithConfigFile(cfg.LogConfig))
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logging.WithLevel(cfg.LogLevel))
	}
	return opts
}

// logFileName maps "a.b.game_master" to "game_master.log".
func logFileName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name + ".log"
}
