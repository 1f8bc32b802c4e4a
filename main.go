package main

import "github.com/KaramelBytes/leaguelens/cmd"

func main() {
	cmd.Execute()
}
