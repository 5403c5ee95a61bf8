package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eburton/receiptmatch/internal/infrastructure/config"
)

// report prints an audit summary of the review database: run history,
// proposal outcomes, and the largest unexplained charges.
func main() {
	var (
		dbPath     string
		configFile string
	)
	flag.StringVar(&dbPath, "db", "", "Path to database file (uses config if not specified)")
	flag.StringVar(&configFile, "config", "", "Configuration file path")
	flag.Parse()

	if dbPath == "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			log.Printf("Warning: Failed to load config: %v", err)
			dbPath = "receiptmatch.db"
		} else {
			dbPath = cfg.Storage.DatabasePath
			if dbPath == "" {
				dbPath = "receiptmatch.db"
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	fmt.Println("RECONCILIATION AUDIT REPORT")
	fmt.Println("=" + strings.Repeat("=", 60))
	fmt.Printf("Database: %s\n", dbPath)
	fmt.Printf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("OVERALL STATISTICS")
	fmt.Println(strings.Repeat("-", 40))

	var totalProposals, acceptedCount, rejectedCount, noMatchCount int
	var totalMatched int64
	var avgConfidence float64

	err = db.QueryRow(`
		SELECT
			COUNT(*) as total_proposals,
			SUM(CASE WHEN status = 'accepted' THEN 1 ELSE 0 END) as accepted_count,
			SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END) as rejected_count,
			SUM(CASE WHEN status = 'no_match' THEN 1 ELSE 0 END) as no_match_count,
			COALESCE(SUM(matched_total_cents), 0) as total_matched,
			COALESCE(AVG(confidence), 0) as avg_confidence
		FROM proposals
	`).Scan(&totalProposals, &acceptedCount, &rejectedCount, &noMatchCount, &totalMatched, &avgConfidence)
	if err != nil {
		log.Printf("Error getting stats: %v", err)
	}

	fmt.Printf("Total proposals:  %d\n", totalProposals)
	fmt.Printf("Accepted:         %d\n", acceptedCount)
	fmt.Printf("Rejected:         %d\n", rejectedCount)
	fmt.Printf("No match:         %d\n", noMatchCount)
	fmt.Printf("Matched total:    $%.2f\n", float64(totalMatched)/100)
	fmt.Printf("Avg confidence:   %.2f\n\n", avgConfidence)

	fmt.Println("BY METHOD")
	fmt.Println(strings.Repeat("-", 40))

	rows, err := db.Query(`
		SELECT method, COUNT(*), COALESCE(SUM(matched_total_cents), 0)
		FROM proposals
		WHERE method != ''
		GROUP BY method
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		log.Printf("Error getting method breakdown: %v", err)
	} else {
		defer rows.Close()
		for rows.Next() {
			var method string
			var count int
			var cents int64
			if err := rows.Scan(&method, &count, &cents); err != nil {
				log.Printf("Error scanning method row: %v", err)
				continue
			}
			fmt.Printf("%-16s %4d  $%.2f\n", method, count, float64(cents)/100)
		}
	}
	fmt.Println()

	fmt.Println("RECENT RUNS")
	fmt.Println(strings.Repeat("-", 40))

	runRows, err := db.Query(`
		SELECT id, started_at, transaction_count, matched_count, unmatched_count, dry_run
		FROM runs
		ORDER BY started_at DESC
		LIMIT 10
	`)
	if err != nil {
		log.Printf("Error getting runs: %v", err)
	} else {
		defer runRows.Close()
		for runRows.Next() {
			var id string
			var startedAt time.Time
			var txnCount, matched, unmatchedCount int
			var dryRun bool
			if err := runRows.Scan(&id, &startedAt, &txnCount, &matched, &unmatchedCount, &dryRun); err != nil {
				log.Printf("Error scanning run row: %v", err)
				continue
			}
			mode := ""
			if dryRun {
				mode = " (dry-run)"
			}
			fmt.Printf("%s  %s  txns=%d matched=%d unmatched=%d%s\n",
				startedAt.Format("2006-01-02 15:04"), id[:8], txnCount, matched, unmatchedCount, mode)
		}
	}
	fmt.Println()

	fmt.Println("LARGEST UNEXPLAINED CHARGES")
	fmt.Println(strings.Repeat("-", 40))

	unmatchedRows, err := db.Query(`
		SELECT transaction_date, payee, amount_cents, message
		FROM proposals
		WHERE status = 'no_match'
		ORDER BY ABS(amount_cents) DESC
		LIMIT 10
	`)
	if err != nil {
		log.Printf("Error getting unmatched charges: %v", err)
	} else {
		defer unmatchedRows.Close()
		for unmatchedRows.Next() {
			var date, payee, message string
			var cents int64
			if err := unmatchedRows.Scan(&date, &payee, &cents, &message); err != nil {
				log.Printf("Error scanning unmatched row: %v", err)
				continue
			}
			fmt.Printf("%s  %-24s $%8.2f  %s\n", date, payee, float64(cents)/100, message)
		}
	}
}
