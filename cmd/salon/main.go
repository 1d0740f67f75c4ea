package main

import (
	"fmt"
	"os"

	_ "time/tzdata"

	"github.com/nobita2041/beauty-salon-cms/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "salon: %v\n", err)
		os.Exit(1)
	}
}
