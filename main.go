package main

import "github.com/couchbaselabs/asgdns/cmd"

func main() {
	cmd.Execute()
}
