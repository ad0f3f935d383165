package main

import "github.com/mcoot/crazyroad-go/internal/cli"

func main() {
	cli.Execute()
}
