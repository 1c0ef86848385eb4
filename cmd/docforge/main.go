package main

import "github.com/docforge-io/docforge/internal/cli"

func main() {
	cli.Execute()
}
