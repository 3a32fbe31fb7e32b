package main

import "github.com/fahadjdy/business-point/internal/app"

func main() {
	app.Run()
}
