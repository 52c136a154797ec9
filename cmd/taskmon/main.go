package main

import "github.com/Dicklesworthstone/taskmon/internal/cli"

func main() {
	cli.Execute()
}
