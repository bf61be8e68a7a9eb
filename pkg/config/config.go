// Package config reads the run settings from the environment and the reference definitions
// from YAML.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/yumyai/loopswap/internal/util"
	"github.com/yumyai/loopswap/logger"
	"go.uber.org/zap"
)

// Env holds every path and knob of a run. Relative file defaults live under Data.
type Env struct {
	Data           string
	Reference      string
	ReferencePDB   string
	Summary        string
	Alignment      string
	Subjects       string
	DB             string
	CSV            string
	ReferencesYAML string
	Addr           string
	Workers        int
}

// LoadEnv reads the given .env files (or ./.env) and then the process environment.
// Unset variables fall back to a logged default.
func LoadEnv(files ...string) Env {
	if err := godotenv.Load(files...); err != nil {
		logger.Warn("No .env found, using local environment")
	}

	e := Env{Data: getenv("LOOPSWAP_DATA", "./data")}
	if !util.DirExists(e.Data) {
		logger.Warn("Data directory does not exist", zap.String("LOOPSWAP_DATA", e.Data))
	}

	e.Reference = getenv("LOOPSWAP_REFERENCE", "TEV")
	e.ReferencePDB = getenv("LOOPSWAP_REFERENCE_PDB", filepath.Join(e.Data, "0000_master_pdb.pdb"))
	e.Summary = getenv("LOOPSWAP_SUMMARY", filepath.Join(e.Data, "0000_dali_pdb90_tev.txt"))
	e.Alignment = getenv("LOOPSWAP_ALIGNMENT", filepath.Join(e.Data, "0000_seq_align.txt"))
	e.Subjects = getenv("LOOPSWAP_SUBJECTS", filepath.Join(e.Data, "*.pdb"))
	e.DB = getenv("LOOPSWAP_DB", filepath.Join(e.Data, "db/loopswap.db"))
	e.CSV = getenv("LOOPSWAP_CSV", "protease_database.csv")
	e.ReferencesYAML = os.Getenv("LOOPSWAP_REFERENCES_YAML")
	e.Addr = getenv("LOOPSWAP_ADDR", "0.0.0.0:8080")

	for key, path := range map[string]string{
		"LOOPSWAP_REFERENCE_PDB": e.ReferencePDB,
		"LOOPSWAP_SUMMARY":       e.Summary,
		"LOOPSWAP_ALIGNMENT":     e.Alignment,
	} {
		if !util.FileExists(path) {
			logger.Warn("Input file does not exist", zap.String(key, path))
		}
	}

	e.Workers = runtime.NumCPU()
	if raw := os.Getenv("LOOPSWAP_WORKERS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			logger.Warn("Invalid LOOPSWAP_WORKERS, using CPU count", zap.String("value", raw), zap.Int("workers", e.Workers))
		} else {
			e.Workers = n
		}
	}
	return e
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		logger.Debug("No local environment, using default value", zap.String("key", key), zap.String("default", fallback))
		return fallback
	}
	return v
}
