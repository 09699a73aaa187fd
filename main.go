package main

import "github.com/B5plus/Random-user/cmd/server"

func main() {
	s := server.NewServer()
	defer s.Stop()
	s.Run()
}
