package main

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/quizgen/cmd"
)

func main() {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
