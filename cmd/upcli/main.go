package main

import (
	"fmt"
	"os"

	"fileupload/internal/upcli"
)

func main() {
	if err := upcli.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
