package main

import "Hearthlight/internal/cli"

func main() {
	cli.Execute()
}
