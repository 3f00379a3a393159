package main

import "github.com/GTDGit/kicks_api/cmd/inventoryctl/commands"

func main() {
	commands.Execute()
}
