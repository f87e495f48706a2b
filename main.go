package main

import "github.com/tayloree/luckydex/cmd"

func main() {
	cmd.Execute()
}
