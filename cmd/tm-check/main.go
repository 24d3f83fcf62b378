// Command tm-check compares the structural skeleton of an original document
// against its translated version without touching the translation memory.
package main

import (
	"fmt"
	"os"
	"strings"

	"tm-engine/internal/preserver"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: tm-check <original.tex> <translated.tex>")
		os.Exit(1)
	}

	original, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("Error reading original: %v\n", err)
		os.Exit(1)
	}
	translated, err := os.ReadFile(os.Args[2])
	if err != nil {
		fmt.Printf("Error reading translated: %v\n", err)
		os.Exit(1)
	}

	orig := string(original)
	trans := string(translated)

	fmt.Println("=== File Statistics ===")
	fmt.Printf("Original: %d lines, %d bytes\n", len(strings.Split(orig, "\n")), len(orig))
	fmt.Printf("Translated: %d lines, %d bytes\n", len(strings.Split(trans, "\n")), len(trans))

	p := preserver.NewStructurePreserver()
	report := p.ValidateIntegrity(orig, trans)

	fmt.Println("\n=== Structure Comparison ===")
	origCounts := report.Original.Counts()
	transCounts := report.Translated.Counts()
	for _, category := range []string{"sections", "figures", "tables", "equations", "citations", "references", "commands"} {
		marker := ""
		if origCounts[category] != transCounts[category] {
			marker = "  <-- MISMATCH"
		}
		fmt.Printf("%-12s %4d | %4d%s\n", category, origCounts[category], transCounts[category], marker)
	}

	if report.StructurePreserved {
		fmt.Println("\nStructure preserved.")
		return
	}

	fmt.Printf("\n%d issues:\n", len(report.Issues))
	for _, issue := range report.Issues {
		fmt.Printf("  - %s\n", issue)
	}
	os.Exit(2)
}
