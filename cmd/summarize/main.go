package main

import "content-summarizer/internal/cli"

func main() {
	cli.Execute()
}
