package main

import "github.com/boxscore/backend/internal/cli"

func main() {
	cli.Execute()
}
