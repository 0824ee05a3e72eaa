// Command semmerge-worker-go is the Go-language analyzer backend,
// speaking the buildAndDiff/diff worker protocol over stdin/stdout.
package main

import (
	"fmt"
	"os"

	"github.com/jimmc414/semantic-merge/internal/goanalyzer"
)

func main() {
	if err := goanalyzer.Serve(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "semmerge-worker-go:", err)
		os.Exit(1)
	}
}
