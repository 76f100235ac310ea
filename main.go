package main

import "github.com/yeisme/grumpy/cmd"

func main() {
	cmd.Execute()
}
