package cli

import (
	"fmt"
	"strings"

	"github.com/eburton/receiptmatch/internal/application/recon"
	"github.com/eburton/receiptmatch/internal/infrastructure/storage"
)

// PrintHeader prints the application header
func PrintHeader(dryRun bool) {
	mode := "PRODUCTION"
	if dryRun {
		mode = "DRY-RUN"
	}
	fmt.Printf("receiptmatch (%s mode)\n", mode)
}

// PrintRunSummary prints the reconciliation result summary
func PrintRunSummary(result *recon.Result, store *storage.Store, dryRun bool) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: Transactions=%d Matched=%d Unmatched=%d Skipped=%d\n",
		result.TransactionCount,
		result.MatchedCount,
		result.UnmatchedCount,
		result.SkippedCount)

	for _, p := range result.Proposals {
		if p.Status == storage.StatusNoMatch {
			fmt.Printf("  ? %s %s %s: %s\n", p.TransactionDate, p.Payee, p.AmountCents, p.Message)
			continue
		}
		fmt.Printf("  + %s %s %s -> %s (%.2f, %d splits)\n",
			p.TransactionDate, p.Payee, p.AmountCents, p.Method, p.Confidence, len(p.Splits))
	}

	// All-time stats from the review store
	if store != nil {
		stats, _ := store.Stats()
		if stats != nil && stats.TotalProposals > 0 {
			fmt.Printf("\nAll-Time Stats: Proposals=%d Accepted=%d Matched=%s AvgConfidence=%.2f\n",
				stats.TotalProposals,
				stats.ByStatus[storage.StatusAccepted],
				stats.TotalMatched,
				stats.AvgConfidence)
		}
	}

	if !dryRun && result.MatchedCount > 0 {
		fmt.Println("\nReconciliation completed successfully.")
	}
}
