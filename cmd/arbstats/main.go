package main

import "github.com/vietddude/arbstats/internal/cli"

func main() {
	cli.Execute()
}
