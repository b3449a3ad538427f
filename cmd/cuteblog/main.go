package main

import "github.com/cuteblog/cmd/cuteblog/commands"

func main() {
	commands.Execute()
}
