package main

import "github.com/calebcase/ocf/cmd/ocfstrip/cmd"

func main() {
	cmd.Execute()
}
