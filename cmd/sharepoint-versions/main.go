package main

import "github.com/pfrederiksen/sharepoint-versions/internal/cli"

func main() {
	cli.Execute()
}
