package main

import "github.com/yomorun/flightdata/cli"

func main() {
	cli.Execute()
}
