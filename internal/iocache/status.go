package iocache

import (
	"fmt"
	"slices"

	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// PrintCacheStatus prints result cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	printer.Printf("Cache Backend: %s\n", status.Backend)
	printer.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	printer.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		printer.Printf("Last Entry: %s\n", status.LastEntryTime.Format(contract.DateTimeFormat))
		printer.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format(contract.DateTimeFormat))
	}
	printer.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintAssessmentStatus prints assessment store status information.
func PrintAssessmentStatus(status schema.AssessmentStatus) {
	printer.Printf("Assessment Backend: %s\n", status.Backend)
	printer.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	printer.Printf("Schema Version: %d\n", status.SchemaVersion)
	printer.Printf("Total Assessments: %d\n", status.TotalAssessments)
	printer.Printf("Total Answers: %d\n", status.TotalAnswers)
	if status.TotalAssessments > 0 {
		printer.Printf("Last Updated: %s\n", status.LastUpdatedTime.Format(contract.DateTimeFormat))
		printer.Printf("Oldest Created: %s\n", status.OldestCreatedTime.Format(contract.DateTimeFormat))
	}
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		printer.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
