package main

import "kline_feed/internal/app"

func main() {
	app.Launch()
}
