package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Cross-checks a generated report: every check sheet must hold as many
// rows as the Summary sheet claims, and every Row cell must be a line number.
func main() {
	filename := "output/verification-report.xlsx"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	summary, err := f.GetRows("Summary")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== REPORT CHECK: %s ===\n", filename)

	claimed := make(map[string]int)
	inChecks := false
	for _, row := range summary {
		if len(row) == 0 {
			inChecks = false
			continue
		}
		if row[0] == "Check" {
			inChecks = true
			continue
		}
		if inChecks && len(row) >= 3 {
			n, err := strconv.Atoi(row[2])
			if err != nil {
				log.Fatalf("Summary count for %s is not a number: %q", row[0], row[2])
			}
			claimed[row[0]] = n
		}
	}

	failed := false
	for _, sheet := range f.GetSheetList()[1:] {
		rows, err := f.GetRows(sheet)
		if err != nil {
			log.Fatal(err)
		}

		count := 0
		for i, row := range rows {
			if i == 0 || len(row) == 0 {
				continue
			}
			if row[0] == "No issues found" {
				break
			}
			if _, err := strconv.Atoi(row[0]); err != nil {
				fmt.Printf("❌ %s row %d: Row cell %q is not a line number\n", sheet, i+1, row[0])
				failed = true
			}
			count++
		}

		want, ok := lookupClaim(claimed, sheet)
		switch {
		case !ok:
			fmt.Printf("⚠️  %s: not listed in Summary\n", sheet)
		case want != count:
			fmt.Printf("❌ %s: Summary says %d rows, sheet has %d\n", sheet, want, count)
			failed = true
		default:
			fmt.Printf("✅ %s: %d rows\n", sheet, count)
		}
	}

	if failed {
		os.Exit(1)
	}
}

// lookupClaim matches a sheet to its Summary line; sheet names may be
// truncated or suffixed, so fall back to a prefix match.
func lookupClaim(claimed map[string]int, sheet string) (int, bool) {
	if n, ok := claimed[sheet]; ok {
		return n, true
	}
	base := sheet
	if i := strings.LastIndex(base, "~"); i > 0 {
		base = base[:i]
	}
	for name, n := range claimed {
		if strings.HasPrefix(name, base) {
			return n, true
		}
	}
	return 0, false
}
