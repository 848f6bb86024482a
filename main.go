package main

import "github.com/Srivathz/twitter-bookmark-manager/cmd"

func main() {
	cmd.Execute()
}
