package main

import "github.com/tessro/duet/internal/cli"

func main() {
	cli.Execute()
}
