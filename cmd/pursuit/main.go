package main

import (
	"context"
	"fmt"
	"os"

	"github.com/zeusync/pursuit/internal/cli"
)

func main() {
	if err := cli.New().Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "pursuit:", err)
		os.Exit(1)
	}
}
