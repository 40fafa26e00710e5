package main

import "github.com/mchmarny/hajjdash/pkg/cli"

func main() {
	cli.Execute()
}
