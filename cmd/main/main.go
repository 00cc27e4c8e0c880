package main

import "github.com/Houeta/yard-scout/internal/cli"

// main is the entry point of the application.
func main() {
	cli.Execute()
}
