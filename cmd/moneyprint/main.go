package main

import (
	"errors"
	"flag"
	"io/fs"
	"moneyprint/internal/di"
	"moneyprint/internal/structures"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	var flags structures.CliFlags
	flag.StringVar(&flags.ConfigPath, "c", "config.yml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "d", false, "debug mode")
	flag.StringVar(&flags.RestoreFrom, "restore", "", "snapshot to restore before serving")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("load .env")
	}

	if _, err := di.InitApp(&flags); err != nil {
		log.Fatal().Err(err).Msg("moneyprint stopped")
	}
}
