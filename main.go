package main

import "vidtowav/cmd"

func main() {
	cmd.Execute()
}
