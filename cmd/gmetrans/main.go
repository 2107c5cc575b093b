package main

import "gmetrans/internal/cli"

func main() {
	cli.Main()
}
