package main

import "smartcal/internal/cli"

func main() {
	cli.Execute()
}
