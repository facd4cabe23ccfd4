package main

import "github.com/user/shopchat/cmd"

func main() {
	cmd.Execute()
}
