package main

import "renloc/internal/cli"

func main() {
	cli.Execute()
}
