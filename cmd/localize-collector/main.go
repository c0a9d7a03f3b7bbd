package main

import "localize-collector/internal/cli"

func main() {
	cli.Execute()
}
