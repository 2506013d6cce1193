package main

import (
	"dstu/cmd/dstu/cmd"
)

func main() {
	cmd.Execute()
}
