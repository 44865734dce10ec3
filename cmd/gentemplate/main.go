package main

import (
	"fmt"
	"os"

	"mergefix/internal/report"
)

// Writes the built-in summary template so it can be customized and
// wired back in through report.template in config.yaml.
func main() {
	path := "template.docx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	if err := report.WriteTemplate(f); err != nil {
		panic(err)
	}

	fmt.Printf("Template written to %s\n", path)
}
