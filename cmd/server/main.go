package main

import "ices/internal/app"

func main() {
	app.Run()
}
