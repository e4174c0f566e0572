package main

import "github.com/emrgen/cms/cmd"

func main() {
	cmd.Execute()
}
