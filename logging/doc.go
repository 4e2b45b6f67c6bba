// Package logging provides a registry of named loggers that write formatted
// records to the console and, optionally, to a file rotated on calendar
// boundaries.
//
// Key features
//   - One logger per name: Setup builds a logger on first use and returns
//     the same instance afterwards, even under concurrent calls
//   - Configuration from defaults, an INI file ([logger] section) and an
//     explicit level, in increasing precedence
//   - Unknown level names fall back to INFO instead of failing
//   - Time-based rotation (S, M, H, D, MIDNIGHT, W0-W6) with bounded or
//     unlimited archive retention
//   - Write failures are returned to the caller, never swallowed
//   - A zerolog bridge for structured call sites
//   - Exception renders Station-Manager error chains; Dump prints values at DEBUG
//
// Typical usage
//
//	reg := logging.NewRegistry()
//	defer reg.Shutdown()
//
//	log, err := reg.Setup("game_master",
//		logging.WithFile("logs/werewolf.log"),
//		logging.WithConfigFile("configs/logger.ini"),
//	)
//	if err != nil { return err }
//	_ = log.Info("GameMaster initialized.")
//
// Configuration file
//
//	[logger]
//	level = DEBUG
//	format = %(asctime)s [%(levelname)s] %(name)s: %(message)s
//	date_format = %Y-%m-%d %H:%M:%S
//	rotation_when = midnight
//	rotation_interval = 1
//	backup_count = 7
package logging
