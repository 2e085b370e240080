package main

import "github.com/philjestin/buildsass/cmd"

func main() {
	cmd.Execute()
}
