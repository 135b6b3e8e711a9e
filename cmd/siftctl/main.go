// Command siftctl runs the extraction and risk-assessment pipeline on local
// files without the API, store or queue.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
