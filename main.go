package main

import "github.com/KaramelBytes/sheetlens-cli/cmd"

func main() {
	cmd.Execute()
}
