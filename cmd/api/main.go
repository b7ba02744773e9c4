package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errInvalidForm) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
