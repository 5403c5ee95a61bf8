package cli

import (
	"flag"

	"github.com/eburton/receiptmatch/internal/application/recon"
)

// MatchFlags are common flags for the reconciliation commands
type MatchFlags struct {
	ConfigPath string
	DryRun     bool
	Verbose    bool
}

// ParseMatchFlags parses common reconciliation flags from the command line
func ParseMatchFlags() MatchFlags {
	var flags MatchFlags
	flag.StringVar(&flags.ConfigPath, "config", "", "Configuration file path")
	flag.BoolVar(&flags.DryRun, "dry-run", false, "Compute proposals without persisting them")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ToOptions converts MatchFlags to recon.Options
func (f MatchFlags) ToOptions() recon.Options {
	return recon.Options{
		DryRun: f.DryRun,
	}
}
