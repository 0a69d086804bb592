package main

import "github.com/ygyuri/foodbank-management-system/cmd/fbctl/commands"

func main() {
	commands.Execute()
}
