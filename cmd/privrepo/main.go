package main

import "github.com/reglet-dev/privrepo/cmd/privrepo/cmd"

func main() {
	cmd.Execute()
}
