package main

import "mealbot/cmd"

func main() {
	cmd.Execute()
}
